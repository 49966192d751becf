// Package order provides the Order aggregate root of the food delivery service:
// a priced cart placed by a customer at one restaurant, its delivery details,
// its payment state and its fulfillment status.
//
// The package includes:
//   - Order: The aggregate root enforcing creation and mutation invariants
//   - CartItem, Topping, ComputeTotal: server-side pricing of order lines
//   - Status: The forward-only fulfillment graph
//   - PaymentMethod, PaymentStatus: Payment state of an order
//   - Change: Append-only history entries produced by every mutation
//
// Key business rules:
//   - Totals are always recomputed from unit prices, quantities and toppings
//   - Fulfillment follows Pending -> (Confirmed ->) InProgress -> OutForDelivery -> Delivered
//   - Payment status moves from unpaid to paid exactly once
//   - Cash-on-delivery orders become paid when they are delivered
//   - A charge that disagrees with the total flags the order for manual review
package order
