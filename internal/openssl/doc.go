// Package openssl is the managed façade over the native toolkit's list and stream objects.
//
// A Runtime binds a native.Library to a logger and stream settings. From it callers build
// a Stack[T], a type-checked collection over the native untyped pointer list, and BIO
// streams: memory, file and message-digest filter nodes that can be linked into a chain.
//
// The façade mirrors the native object model instead of hiding it. Counts are queried live,
// indices are only valid at the instant of the call, elements stored in a Stack stay owned
// by whoever created them, and a BIO linked downstream of another becomes owned by the head
// of that chain. Every native failure sentinel is turned into an *Error that unwraps to one
// of the Err* sentinels and carries the native error queue.
//
// Stack and BIO values are not safe for concurrent use.
package openssl
