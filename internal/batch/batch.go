// Package batch runs independent per-file conversions and keeps their
// results in submission order.
package batch

import (
	"context"
	"sync"
)

// Outcome is the final state of one item in a batch.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// Tag returns the bracketed marker used in per-item log lines.
func (o Outcome) Tag() string {
	switch o {
	case OutcomeOK:
		return "[OK]"
	case OutcomeSkipped:
		return "[SKIP]"
	default:
		return "[ERROR]"
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Item records what happened to a single source file.
type Item struct {
	Source      string
	Destination string
	Outcome     Outcome
	Reason      string
	Err         error
	Bytes       int64
}

// Skipped builds a skipped item.
func Skipped(source, destination, reason string) Item {
	return Item{Source: source, Destination: destination, Outcome: OutcomeSkipped, Reason: reason}
}

// Failed builds a failed item carrying err.
func Failed(source, destination string, err error) Item {
	item := Item{Source: source, Destination: destination, Outcome: OutcomeFailed, Err: err}
	if err != nil {
		item.Reason = err.Error()
	}
	return item
}

// Summary aggregates item outcomes.
type Summary struct {
	Total   int
	OK      int
	Skipped int
	Failed  int
	Bytes   int64
}

// Summarize counts outcomes across items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		switch item.Outcome {
		case OutcomeOK:
			s.OK++
			s.Bytes += item.Bytes
		case OutcomeSkipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

// Execute runs do for every job using up to workers goroutines. The returned
// items are indexed like jobs regardless of completion order. Once ctx is
// done no new job is started; unstarted jobs are reported as skipped.
// observe, when set, is called from a single goroutine as items complete.
func Execute[T any](
	ctx context.Context,
	jobs []T,
	workers int,
	describe func(T) (string, string),
	do func(context.Context, T) Item,
	observe func(int, Item),
) []Item {
	items := make([]Item, len(jobs))
	if len(jobs) == 0 {
		return items
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type indexed struct {
		index int
		item  Item
	}

	queue := make(chan int)
	results := make(chan indexed)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range queue {
				results <- indexed{index: idx, item: do(ctx, jobs[idx])}
			}
		}()
	}

	started := make([]bool, len(jobs))
	go func() {
		defer close(queue)
		for idx := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case queue <- idx:
				started[idx] = true
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		items[res.index] = res.item
		if observe != nil {
			observe(res.index, res.item)
		}
	}

	for idx, ran := range started {
		if ran {
			continue
		}
		src, dst := describe(jobs[idx])
		items[idx] = Skipped(src, dst, "cancelled before start")
		if observe != nil {
			observe(idx, items[idx])
		}
	}
	return items
}
