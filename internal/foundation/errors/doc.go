// Package errors provides the classified error type used by the service,
// storage and CLI layers.
//
// A ClassifiedError carries a category (config, validation, upstream,
// storage, ...), a severity, a retry hint and free-form context. Errors are
// built with the fluent ErrorBuilder and presented by the HTTP and CLI
// adapters, which map categories to status and exit codes.
//
// Example usage:
//
//	err := errors.UpstreamError("analyzer request failed").
//		WithCause(cause).
//		WithContext("url", analyzerURL).
//		Build()
package errors
