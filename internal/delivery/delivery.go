// Package delivery defines the contract every inbound adapter (HTTP
// servers, workers) fulfills so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running inbound adapter.
type Delivery interface {
	Serve(ctx context.Context) error
}
