// Package server exposes the in-memory store as a tenant-scoped REST
// API with OData-style query parameters on collection reads.
package server
