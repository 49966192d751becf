// Package services provides domain services that apply business rules spanning
// more than one domain object of the food delivery service.
//
// The package includes:
//   - CartPricer: Prices untrusted cart lines against a restaurant's authoritative menu
//   - TransitionPolicy: The single permission table deciding which role may move an
//     order along which fulfillment edge
//
// Both services are pure: they read the domain objects they are given and never
// perform I/O.
package services
