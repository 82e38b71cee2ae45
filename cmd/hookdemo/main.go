// Command hookdemo is a thin CLI that exercises the splicehook engine end
// to end: it builds two tiny hand-assembled machine-code functions at
// runtime, hooks the first to redirect into the second, calls through the
// (now-redirected) entry point and through the trampoline, and prints
// both results.
package main

import (
	"flag"
	"fmt"
	"os"

	hook "github.com/xyproto/splicehook"
	"github.com/xyproto/splicehook/internal/callstub"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable splicehook diagnostic logging")
	arg := flag.Int64("arg", 5, "argument passed to the demo function")
	flag.Parse()

	if *verbose {
		hook.Verbose = true
	}

	fn, err := buildDemoFunctions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hookdemo:", err)
		os.Exit(1)
	}

	reg := hook.NewRegistry()
	h := reg.Init("hookdemo", fn.double, fn.triple)
	rec := reg.Get(h)

	before := callstub.Call(fn.double, uintptr(*arg))
	fmt.Printf("before hook: f(%d) = %d\n", *arg, before)

	if !rec.Hook() {
		fmt.Fprintln(os.Stderr, "hookdemo: hook installation failed")
		os.Exit(1)
	}

	after := callstub.Call(fn.double, uintptr(*arg))
	fmt.Printf("after hook:  f(%d) = %d (redirected to triple)\n", *arg, after)

	original := callstub.Call(rec.Trampoline, uintptr(*arg))
	fmt.Printf("via trampoline: original f(%d) = %d\n", *arg, original)

	reg.RemoveAllFrom("hookdemo")

	restored := callstub.Call(fn.double, uintptr(*arg))
	fmt.Printf("after unhook: f(%d) = %d\n", *arg, restored)
}
