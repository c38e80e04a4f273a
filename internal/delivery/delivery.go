// Package delivery defines the contract every transport-facing server
// implements so the application can run them uniformly.
package delivery

import "context"

// Delivery is a long-running server. Serve blocks until the server stops;
// shutdown is driven by the lifecycle hooks each implementation registers.
type Delivery interface {
	Serve(ctx context.Context) error
}
