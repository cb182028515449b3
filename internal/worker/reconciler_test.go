package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	domainErrors "github.com/wealthdesk/fundmart/internal/domain/errors"
	"github.com/wealthdesk/fundmart/internal/domain/model"
	testhelpers "github.com/wealthdesk/fundmart/internal/test"
)

func TestNewReconcilerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.WorkerFacadeStub{}, time.Second, time.Second, 0, 0, logger)
	if rec.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", rec.batchSize)
	}
	if rec.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", rec.workers)
	}
}

func TestReconcilerAppliesReports(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	upstream := "venue-1"
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Order{{{ID: "o1", OrderID: &upstream, Status: model.OrderStatusCheckedOut}}},
	}
	rec := NewReconciler(facade, 10*time.Millisecond, time.Hour, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		applied := len(facade.Applied) > 0
		facade.Unlock()
		if applied {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for reconciliation")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.Stop()
	facade.Lock()
	defer facade.Unlock()
	if facade.Applied[0].OrderID != "o1" {
		t.Fatalf("expected report applied to o1, got %+v", facade.Applied[0])
	}
}

func TestReconcilerSkipsUnregisteredOrders(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	checks := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Order{{{ID: "o1", Status: model.OrderStatusCheckedOut}}},
		CheckFn: func(ctx context.Context, order *model.Order) (*model.StatusReport, error) {
			atomic.AddInt32(&checks, 1)
			return nil, domainErrors.ErrNotFound
		},
	}
	rec := NewReconciler(facade, 5*time.Millisecond, time.Hour, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for atomic.LoadInt32(&checks) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for status check")
		case <-time.After(5 * time.Millisecond):
		}
	}
	rec.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Applied) != 0 {
		t.Fatalf("expected no applied reports, got %d", len(facade.Applied))
	}
}

func TestReconcilerRunsPairSweep(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{}
	rec := NewReconciler(facade, time.Hour, 5*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for atomic.LoadInt32(&facade.Sweeps) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for pair sweep")
		case <-time.After(5 * time.Millisecond):
		}
	}
	rec.Stop()
}

func TestReconcilerStopIsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.WorkerFacadeStub{}, 10*time.Millisecond, time.Hour, 1, 2, logger)

	rec.Start(context.Background())
	rec.Stop()
	rec.Stop()
}
