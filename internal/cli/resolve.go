package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/pkg/client"
)

// resolveStore maps a user-supplied store argument to a resource name.
// A full resource name passes through; anything else is matched against
// display names.
func resolveStore(ctx context.Context, c *client.Client, arg string) (string, error) {
	if strings.HasPrefix(arg, "fileSearchStores/") {
		return arg, nil
	}
	stores, err := c.ListStores(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range stores {
		if s.DisplayName == arg {
			return s.Name, nil
		}
	}
	return "", fmt.Errorf("no store named %q; try 'tome stores list'", arg)
}

// ensureStore returns the resource name of the store with the given display
// name, creating it when absent.
func ensureStore(ctx context.Context, c *client.Client, displayName string) (string, error) {
	stores, err := c.ListStores(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range stores {
		if s.DisplayName == displayName {
			return s.Name, nil
		}
	}
	ref, err := c.CreateStore(ctx, displayName)
	if err != nil {
		return "", err
	}
	return ref.Name, nil
}

// waitForJob steps an indexing job to a terminal state, printing progress.
func waitForJob(ctx context.Context, cfg *config.AppConfig, job *client.IndexJob) error {
	for !job.State().Terminal() {
		if _, err := job.Step(ctx); err != nil {
			fmt.Printf("poll error: %v (retrying)\n", err)
		}
		if job.State().Terminal() {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.PollInterval()):
		}
	}
	switch job.State() {
	case client.StateSucceeded:
		return nil
	case client.StateTimedOut:
		return fmt.Errorf("indexing timed out after %s; the service may still finish on its own", cfg.PollTimeout())
	default:
		if err := job.Err(); err != nil {
			return err
		}
		return fmt.Errorf("indexing failed")
	}
}
