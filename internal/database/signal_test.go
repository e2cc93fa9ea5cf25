package database

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalHandler_Idle(t *testing.T) {
	ctx, cancel := SetupSignalHandler(context.Background(), nil)
	defer cancel()

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, ctx.Err())
}

func TestSetupSignalHandler_FollowsParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := SetupSignalHandler(parent, nil)
	defer cancel()

	cancelParent()
	require.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 5*time.Millisecond)
}

func TestSetupSignalHandler_StopReleases(t *testing.T) {
	ctx, cancel := SetupSignalHandler(context.Background(), nil)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSetupSignalHandler_Signal(t *testing.T) {
	if os.Getenv("CI") == "true" {
		t.Skip("signals are unreliable in CI")
	}

	got := make(chan os.Signal, 1)
	ctx, cancel := SetupSignalHandler(context.Background(), func(sig os.Signal) { got <- sig })
	defer cancel()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
		assert.Equal(t, syscall.SIGINT, <-got)
	case <-time.After(time.Second):
		t.Fatal("signal did not cancel the context")
	}
}
