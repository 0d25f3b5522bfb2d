// Package catalogsync mirrors the remote fulfillment catalog into the local
// store.
//
// A full run pages through the remote product index and syncs each product
// in order, stopping at the first failure. Single-product runs skip
// pagination. Both kinds write exactly one SyncLog row. Every write is an
// upsert keyed by a remote identifier, so re-running a sync converges on the
// remote state and a failed run is resumed simply by running again.
package catalogsync
