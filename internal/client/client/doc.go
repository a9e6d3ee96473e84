// Package client contains client-side building blocks for Promptify.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the marketplace backend.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the identity token via an interceptor and maps
//     gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI cache, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Business failures are exposed as sentinel errors that callers can match
// with errors.Is: ErrNotAuthenticated, ErrInsufficientBalance, ErrForbidden,
// ErrNotFound, ErrInvalidArgument and ErrUnavailable (transient).
package client
