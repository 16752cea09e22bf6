package sim

import "fmt"

// Library codes, numbered as in the native err.h.
const (
	libSys    = 2
	libEVP    = 6
	libASN1   = 13
	libCrypto = 15
	libBIO    = 32
)

// Reason codes used by the emulation.
const (
	reasonMallocFailure = 256 + iota
	reasonPassedNullParameter
	reasonInvalidHandle
	reasonWrongObjectType
	reasonUnsupportedMethod
	reasonNoSuchFile
	reasonInvalidMode
	reasonWriteToReadOnly
	reasonBrokenPipe
	reasonNoDigestSet
	reasonDigestFinalized
	reasonChainCycle
	reasonSystemIO
)

var libNames = map[uint64]string{
	libSys:    "system library",
	libEVP:    "digital envelope routines",
	libASN1:   "asn1 encoding routines",
	libCrypto: "common libcrypto routines",
	libBIO:    "BIO routines",
}

var reasonNames = map[uint64]string{
	reasonMallocFailure:       "malloc failure",
	reasonPassedNullParameter: "passed a null parameter",
	reasonInvalidHandle:       "invalid object handle",
	reasonWrongObjectType:     "wrong object type",
	reasonUnsupportedMethod:   "unsupported method",
	reasonNoSuchFile:          "no such file",
	reasonInvalidMode:         "invalid fopen mode",
	reasonWriteToReadOnly:     "write to read only BIO",
	reasonBrokenPipe:          "broken pipe",
	reasonNoDigestSet:         "no digest set",
	reasonDigestFinalized:     "digest context already finalized",
	reasonChainCycle:          "chain would contain a cycle",
	reasonSystemIO:            "I/O error",
}

func packError(lib, reason uint64) uint64 {
	return lib<<23 | reason
}

func (l *Library) raiseLocked(lib, reason uint64) {
	l.errs = append(l.errs, packError(lib, reason))
}

// ErrGetError implements native.ErrorQueue.
func (l *Library) ErrGetError() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.errs) == 0 {
		return 0
	}
	code := l.errs[0]
	l.errs = l.errs[1:]
	return code
}

// ErrErrorString implements native.ErrorQueue.
func (l *Library) ErrErrorString(code uint64) string {
	lib := code >> 23
	reason := code & (1<<23 - 1)

	libName, ok := libNames[lib]
	if !ok {
		libName = fmt.Sprintf("lib(%d)", lib)
	}
	reasonName, ok := reasonNames[reason]
	if !ok {
		reasonName = fmt.Sprintf("reason(%d)", reason)
	}
	return fmt.Sprintf("error:%08X:%s::%s", code, libName, reasonName)
}

// ErrClearError implements native.ErrorQueue.
func (l *Library) ErrClearError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = l.errs[:0]
}

// Pending returns the number of queued error codes.
func (l *Library) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}
