// Package model holds the marketplace entities exchanged between the
// orchestration layer and its Transport.
//
// Entities are values. They are built from transport responses and are not
// mutated afterwards, except for the explicit SKU enrichment performed by
// the service package on its own copies.
package model
