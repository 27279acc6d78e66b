package query

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
)

var errHandoffClosed = errors.New("page handoff closed")

// pageOutcome is the result of one prefetched page request.
type pageOutcome struct {
	output *timestreamquery.QueryOutput
	err    error
}

// pageHandoff passes prefetched pages from the worker to the consumer. It
// holds at most one outcome; a producer blocks until the slot is free or
// the handoff is closed.
type pageHandoff struct {
	slot      chan pageOutcome
	closing   chan struct{}
	closeOnce sync.Once
}

func newPageHandoff() *pageHandoff {
	return &pageHandoff{
		slot:    make(chan pageOutcome, 1),
		closing: make(chan struct{}),
	}
}

// put deposits an outcome, false when the handoff was closed first.
func (h *pageHandoff) put(outcome pageOutcome) bool {
	select {
	case <-h.closing:
		return false
	default:
	}
	select {
	case h.slot <- outcome:
		return true
	case <-h.closing:
		return false
	}
}

// take waits for the next outcome.
func (h *pageHandoff) take(ctx context.Context) (pageOutcome, error) {
	select {
	case outcome := <-h.slot:
		return outcome, nil
	case <-h.closing:
		return pageOutcome{}, errHandoffClosed
	case <-ctx.Done():
		return pageOutcome{}, ctx.Err()
	}
}

// close wakes every waiter; later puts are dropped.
func (h *pageHandoff) close() {
	h.closeOnce.Do(func() {
		close(h.closing)
	})
}

func (h *pageHandoff) isClosed() bool {
	select {
	case <-h.closing:
		return true
	default:
		return false
	}
}

// drain discards an outcome nobody will consume.
func (h *pageHandoff) drain() {
	select {
	case <-h.slot:
	default:
	}
}

func (h *pageHandoff) pending() int {
	return len(h.slot)
}
