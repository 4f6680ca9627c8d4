// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fanctl/fanctl/lib/testutil"
)

func TestShared_SerializesAccess(t *testing.T) {
	t.Parallel()

	controller, _ := newTestController(t, nil, 60)
	shared := NewShared(controller)

	// Each goroutine flips the override without any extra locking.
	// The race detector flags any overlap between Do calls.
	var waitGroup sync.WaitGroup
	for worker := range 16 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for iteration := range 50 {
				err := shared.Do(context.Background(), func(controller *Controller) error {
					if (worker+iteration)%2 == 0 {
						return controller.Overwrite("balanced")
					}
					controller.ClearOverride()
					_, err := controller.Tick()
					return err
				})
				if err != nil {
					t.Errorf("Do: %v", err)
					return
				}
			}
		}()
	}
	waitGroup.Wait()

	err := shared.Do(context.Background(), func(controller *Controller) error {
		if got := len(controller.History()); got != 100 {
			t.Errorf("history length = %d, want 100", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestShared_ReturnsFnError(t *testing.T) {
	t.Parallel()

	controller, _ := newTestController(t, nil, 60)
	shared := NewShared(controller)
	err := shared.Do(context.Background(), func(controller *Controller) error {
		return controller.Overwrite("turbo")
	})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Do = %v, want ErrUnknownStrategy", err)
	}
}

func TestShared_CancelWhileWaiting(t *testing.T) {
	t.Parallel()

	controller, _ := newTestController(t, nil, 60)
	shared := NewShared(controller)

	holding := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan error, 1)
	go func() {
		holderDone <- shared.Do(context.Background(), func(*Controller) error {
			close(holding)
			<-release
			return nil
		})
	}()
	testutil.RequireClosed(t, holding, 5*time.Second, "holder acquiring the controller")

	ctx, cancel := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	ran := false
	go func() {
		waiterDone <- shared.Do(ctx, func(*Controller) error {
			ran = true
			return nil
		})
	}()
	cancel()

	err := testutil.RequireReceive(t, waiterDone, 5*time.Second, "cancelled waiter returning")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Do = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("fn ran after its context was cancelled")
	}

	close(release)
	if err := testutil.RequireReceive(t, holderDone, 5*time.Second, "holder finishing"); err != nil {
		t.Errorf("holder Do: %v", err)
	}

	// The slot is back after the holder returns.
	if err := shared.Do(context.Background(), func(*Controller) error { return nil }); err != nil {
		t.Errorf("Do after release: %v", err)
	}
}
