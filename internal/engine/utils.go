package engine

import "hash/fnv"

// OwnerToken hashes an owner identity to a short, stable diagnostic tag for
// log lines. The registry never uses this for equality (owners are compared
// by Go's own `==` on the caller-supplied value); it exists only so verbose
// logging doesn't have to print arbitrary, possibly long, owner values.
func OwnerToken(owner string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(owner))
	return h.Sum32()
}
