// Package fit decides whether an order fits a shipping container. It
// aggregates order lines into a Demand, evaluates the selected container,
// picks the best-fitting container from the catalog and classifies the result
// as adequate, too small, oversized or error.
package fit
