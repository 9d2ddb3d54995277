package dataflow_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/locvowork/excel_intelligence/pkg/dataflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapForEach(t *testing.T) {
	ctx := context.Background()

	source := dataflow.From(ctx, "1", "2", "x", "4")

	var dropped int32
	parsed := dataflow.Map(ctx, source, func(s string) (int, error) {
		return strconv.Atoi(s)
	}, dataflow.WithWorkers(3), dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&dropped, 1)
		return true
	}))

	var got []int
	err := dataflow.ForEach(ctx, parsed, func(n int) error {
		got = append(got, n)
		return nil
	})
	require.NoError(t, err)

	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 4}, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dropped))
}

func TestForEach_FirstError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3), func(n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEach_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dataflow.ForEach(ctx, dataflow.From(context.Background(), 1, 2), func(int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
