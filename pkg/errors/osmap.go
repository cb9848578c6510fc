package errors

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
)

// FromOSError converts a raw filesystem error into a coded FmanError so that
// per-item outcomes carry a stable code regardless of platform error text.
func FromOSError(err error, message string) *FmanError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Wrap(err, ErrNotFound, message)
	case errors.Is(err, fs.ErrPermission):
		return Wrap(err, ErrPermission, message)
	case errors.Is(err, fs.ErrExist):
		return Wrap(err, ErrAlreadyExists, message)
	case errors.Is(err, syscall.ENOSPC):
		return Wrap(err, ErrNoSpace, message)
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCancelled, message)
	default:
		return Wrap(err, ErrUnknown, message)
	}
}
