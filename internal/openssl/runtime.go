package openssl

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/logger"
)

// Runtime binds the façade to one native library.
type Runtime struct {
	lib      native.Library
	logger   logger.Logger
	settings config.StreamSettings
}

// NewRuntime creates a Runtime. A nil settings value selects the stream defaults.
func NewRuntime(lib native.Library, logger logger.Logger, settings *config.StreamSettings) (*Runtime, error) {
	if lib == nil {
		return nil, errors.New("native library cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if settings == nil {
		settings = config.DefaultStreamSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate settings: %w", err)
	}

	return &Runtime{
		lib:      lib,
		logger:   logger.With("component", "openssl", "backend", lib.Name()),
		settings: *settings,
	}, nil
}

// Library returns the native library the runtime calls into.
func (rt *Runtime) Library() native.Library {
	return rt.lib
}

// pin locks the goroutine to its OS thread and clears stale native errors, so a failure
// is read back from the same per-thread queue that recorded it.
//
// The objects in keep stay reachable until the returned function runs. Callers pass every
// wrapper whose native pointer the call uses, so no finalizer releases that pointer while
// the native call is still in flight.
func (rt *Runtime) pin(keep ...any) func() {
	runtime.LockOSThread()
	rt.lib.ErrClearError()
	return func() {
		runtime.UnlockOSThread()
		for _, k := range keep {
			runtime.KeepAlive(k)
		}
	}
}

// fail drains the native error queue into an *Error.
func (rt *Runtime) fail(op string, kind error, format string, args ...interface{}) error {
	e := &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
	for code := rt.lib.ErrGetError(); code != 0; code = rt.lib.ErrGetError() {
		text := rt.lib.ErrErrorString(code)
		if e.Code == 0 {
			e.Code = code
			e.Reason = text
		}
		e.Queue = append(e.Queue, text)
	}
	return e
}

func closedError(op, what string) error {
	return &Error{Op: op, Kind: ErrClosed, Detail: what}
}
