// Package native defines the contracts the managed façade consumes from the native
// cryptography toolkit: list primitives, stream (BIO) primitives, digest lookup,
// a concrete record kind and the per-thread error queue.
//
// The contracts follow the function conventions of the native library rather than its
// binary layout. Every primitive reports failure through the sentinel its native
// counterpart uses: a null pointer, a negative integer or, for a few calls, zero.
package native
