// errors.go: structured error handling for xfetch cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all cache operations.
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0
package xfetch

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for xfetch cache operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig   errors.ErrorCode = "XFETCH_INVALID_CONFIG"
	ErrCodeInvalidMaxItems errors.ErrorCode = "XFETCH_INVALID_MAX_ITEMS"

	// Operation errors (2xxx)
	ErrCodeEmptyKey errors.ErrorCode = "XFETCH_EMPTY_KEY"

	// Loader errors (3xxx)
	ErrCodeLoaderFailed  errors.ErrorCode = "XFETCH_LOADER_FAILED"
	ErrCodeInvalidLoader errors.ErrorCode = "XFETCH_INVALID_LOADER"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "XFETCH_INTERNAL"
	ErrCodePanicRecovered errors.ErrorCode = "XFETCH_PANIC_RECOVERED"
)

// Common error messages.
const (
	msgInvalidMaxItems = "invalid max items: must be >= 0 (0 means unbounded)"
	msgEmptyKey        = "key cannot be empty"
	msgLoaderFailed    = "load function failed"
	msgInvalidLoader   = "load function cannot be nil"
	msgInternalError   = "internal cache error"
	msgPanicRecovered  = "panic recovered in load function"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidMaxItems creates an error for a negative MaxItems.
func NewErrInvalidMaxItems(items int) error {
	return errors.NewWithContext(ErrCodeInvalidMaxItems, msgInvalidMaxItems, map[string]interface{}{
		"provided_max_items": items,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrEmptyKey creates an error when an empty key is supplied.
func NewErrEmptyKey(operation string) error {
	return errors.NewWithField(ErrCodeEmptyKey, msgEmptyKey, "operation", operation)
}

// =============================================================================
// LOADER ERRORS
// =============================================================================

// NewErrLoaderFailed wraps a load function's own error (spec §7 LoadFailure).
func NewErrLoaderFailed(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", key)
}

// NewErrInvalidLoader creates an error when a nil load function is supplied.
func NewErrInvalidLoader(key string) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "key", key)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error (spec §7 StoreContention/Internal).
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a load function panics.
func NewErrPanicRecovered(key string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"key":         key,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsEmptyKey reports whether err is an empty-key error.
func IsEmptyKey(err error) bool {
	return errors.HasCode(err, ErrCodeEmptyKey)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidMaxItems
	}
	return false
}

// IsLoaderError reports whether err is a load function failure wrapped by
// NewErrLoaderFailed, as ReadThroughCache returns it (spec §7 LoadFailure).
// DedupLoader on its own returns the load function's error unwrapped, which
// this does not match. A cancellation while awaiting another caller's
// in-flight load is not a LoaderError: it is ctx.Err() propagated verbatim,
// checkable with stdlib errors.Is(err, context.Canceled) /
// errors.Is(err, context.DeadlineExceeded).
func IsLoaderError(err error) bool {
	return errors.HasCode(err, ErrCodeLoaderFailed)
}

// IsPanicRecovered reports whether err wraps a recovered load-function panic.
func IsPanicRecovered(err error) bool {
	return errors.HasCode(err, ErrCodePanicRecovered)
}

// IsRetryable reports whether the error can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if it has none.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the structured context attached to err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xerr *errors.Error
	if goerrors.As(err, &xerr) {
		return xerr.Context
	}
	return nil
}
