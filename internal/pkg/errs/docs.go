// Package errs provides standardized error types for the order service.
//
// Every type pairs a struct carrying the offending parameter with a sentinel
// returned by Unwrap, so callers classify failures with errors.Is:
//   - ValueIsRequiredError unwraps to ErrValueIsRequired
//   - ValueIsInvalidError unwraps to ErrValueIsInvalid
//   - ValueIsOutOfRangeError unwraps to ErrValueIsOutOfRange
//   - ObjectNotFoundError unwraps to ErrObjectNotFound
//   - VersionIsInvalidError unwraps to ErrVersionIsInvalid, raised when an
//     optimistic concurrency check loses to another writer
//
// The HTTP adapter maps these sentinels to status codes.
package errs
