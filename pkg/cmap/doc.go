// Package cmap provides a concurrent-safe sharded map.
//
// Sharding spreads keys over independently locked buckets so that
// hot paths such as the connection registry do not contend on a
// single mutex. All operations are safe for concurrent use.
package cmap
