// Package errors provides the classified error primitives shared by the docsite
// pipeline, server and CLI.
//
// A ClassifiedError carries a category (what failed), a severity (how bad it is)
// and free-form context. Adapters translate the category into an HTTP status or a
// process exit code so that callers never switch on error strings.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryNotFound, "document not found").
//		WithContext("path", docPath).
//		WithCause(readErr).
//		Build()
package errors
