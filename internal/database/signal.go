package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler derives a context from parent that is canceled on
// SIGTERM or SIGINT. A long scan or key search running under the context
// stops at its next cancellation check and the connection is closed by the
// caller. onSignal, when non-nil, runs before the cancellation.
//
// The returned cancel func releases the signal subscription.
func SetupSignalHandler(parent context.Context, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
