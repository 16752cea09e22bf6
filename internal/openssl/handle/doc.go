// Package handle implements the ownership discipline for native pointers.
//
// An Owned handle runs its native release function at most once, either on Close or
// when the Go value becomes unreachable. A Borrowed handle references an object owned
// elsewhere and has no way to release it. The two are distinct types so a borrowed
// reference cannot be disposed by accident.
package handle
