// Package errors provides the classified error primitives used across pillarsync.
//
// A ClassifiedError carries a category (config, filesystem, parse, ...), a
// severity and a free-form context map. Errors are assembled with the fluent
// builder:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write lesson").
//		WithContext("file", path).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
