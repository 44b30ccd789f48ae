package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describeInt(n int) (string, string) {
	return fmt.Sprintf("src-%d", n), fmt.Sprintf("dst-%d", n)
}

func TestExecutePreservesOrderWithWorkers(t *testing.T) {
	jobs := []int{5, 1, 4, 2, 3}
	items := Execute(context.Background(), jobs, 3, describeInt, func(_ context.Context, n int) Item {
		time.Sleep(time.Duration(n) * time.Millisecond)
		src, dst := describeInt(n)
		return Item{Source: src, Destination: dst, Outcome: OutcomeOK}
	}, nil)

	require.Len(t, items, len(jobs))
	for i, n := range jobs {
		assert.Equal(t, fmt.Sprintf("src-%d", n), items[i].Source)
	}
}

func TestExecuteStopsSchedulingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran atomic.Int32
	jobs := []int{1, 2, 3, 4}
	items := Execute(ctx, jobs, 1, describeInt, func(_ context.Context, n int) Item {
		ran.Add(1)
		if n == 1 {
			cancel()
		}
		return Item{Source: fmt.Sprintf("src-%d", n), Outcome: OutcomeOK}
	}, nil)

	require.Len(t, items, 4)
	assert.Equal(t, OutcomeOK, items[0].Outcome)
	assert.LessOrEqual(t, ran.Load(), int32(2))
	assert.Equal(t, OutcomeSkipped, items[3].Outcome)
	assert.Equal(t, "cancelled before start", items[3].Reason)
	assert.Equal(t, "dst-4", items[3].Destination)
}

func TestExecuteObservesEveryItem(t *testing.T) {
	seen := map[int]bool{}
	Execute(context.Background(), []int{1, 2, 3}, 2, describeInt, func(_ context.Context, n int) Item {
		return Item{Outcome: OutcomeOK}
	}, func(idx int, _ Item) {
		seen[idx] = true
	})
	assert.Len(t, seen, 3)
}

func TestSummarize(t *testing.T) {
	items := []Item{
		{Outcome: OutcomeOK, Bytes: 10},
		Skipped("a", "b", "exists"),
		Failed("c", "d", errors.New("boom")),
		{Outcome: OutcomeOK, Bytes: 5},
	}
	s := Summarize(items)
	assert.Equal(t, Summary{Total: 4, OK: 2, Skipped: 1, Failed: 1, Bytes: 15}, s)
	assert.Equal(t, "boom", items[2].Reason)
}

func TestOutcomeTag(t *testing.T) {
	assert.Equal(t, "[OK]", OutcomeOK.Tag())
	assert.Equal(t, "[SKIP]", OutcomeSkipped.Tag())
	assert.Equal(t, "[ERROR]", OutcomeFailed.Tag())
}
