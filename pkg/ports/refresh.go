package ports

import (
	"context"
	"time"
)

// RefreshSource produces display refresh timestamps.
type RefreshSource interface {
	// Start begins emitting timestamps, measured from an arbitrary origin.
	// The channel is closed when the source stops.
	Start(ctx context.Context) (<-chan time.Duration, error)

	// Stop halts the source.
	Stop()
}

// Tick is one refresh delivered by the pump.
type Tick struct {
	Timestamp time.Duration // Time since the source origin
	Sequence  uint64        // 1-based delivery counter
}
