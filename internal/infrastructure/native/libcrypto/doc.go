// Package libcrypto binds the native primitives to OpenSSL's libcrypto through cgo.
//
// The binding is only compiled with the "openssl" build tag and cgo enabled:
//
//	go build -tags openssl ./...
//
// Importing the package registers the "openssl" backend. Without the tag the package is
// empty and the backend stays unavailable.
package libcrypto
