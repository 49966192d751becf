// Package kernel provides the shared value objects of the ordering domain.
//
// The package includes:
//   - UUID: identifier wrapper that rejects the nil UUID
//   - Money: non-negative amount in minor currency units with an ISO currency code
//   - Address: structured postal address used for delivery
//   - Caller: the pre-authenticated identity (user, role, bound restaurant) handed to every use case
//
// All values are immutable and must be built through their constructors; a zero
// value fails Validate.
package kernel
