package main

// Notes:
// - notifyContext: only the context plumbing is tested (stop and parent
//   cancellation). Real signal delivery is left out; it is racy in tests.

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Cancellation sources
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cancel     func(stop, cancelParent context.CancelFunc)
		wantClosed bool
	}{
		{
			name:       "open until cancelled",
			cancel:     func(_, _ context.CancelFunc) {},
			wantClosed: false,
		},
		{
			name:       "stop cancels",
			cancel:     func(stop, _ context.CancelFunc) { stop() },
			wantClosed: true,
		},
		{
			name:       "parent cancellation propagates",
			cancel:     func(_, cancelParent context.CancelFunc) { cancelParent() },
			wantClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parent, cancelParent := context.WithCancel(context.Background())
			defer cancelParent()
			ctx, stop := notifyContext(parent)
			defer stop()

			tt.cancel(stop, cancelParent)

			select {
			case <-ctx.Done():
				if !tt.wantClosed {
					t.Fatal("context cancelled unexpectedly")
				}
			default:
				if tt.wantClosed {
					t.Fatal("context still open")
				}
			}
		})
	}
}
