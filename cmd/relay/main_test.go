package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, "127.0.0.1:0") }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRootFlagsDefault(t *testing.T) {
	cmd := rootCmd()
	f := cmd.Flags().Lookup("bind")
	require.NotNil(t, f)
	require.Equal(t, "0.0.0.0:8080", f.DefValue)
	require.Equal(t, "b", f.Shorthand)
	require.NotNil(t, cmd.Flags().ShorthandLookup("v"))
}
