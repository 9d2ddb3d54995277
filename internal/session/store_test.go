package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/excel_intelligence/internal/domain"
)

func TestStore_PutReplacesByName(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	require.NoError(t, s.Put(ctx, "s1", 0, domain.Workbook{Name: "a.xlsx", Size: 1}, domain.Workbook{Name: "b.xlsx"}))
	require.NoError(t, s.Put(ctx, "s1", 0, domain.Workbook{Name: "a.xlsx", Size: 2}, domain.Workbook{Name: "c.xlsx"}))

	wbs, err := s.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, wbs, 3)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx", "c.xlsx"}, []string{wbs[0].Name, wbs[1].Name, wbs[2].Name})
	assert.Equal(t, int64(2), wbs[0].Size)

	wb, err := s.Get(ctx, "s1", "b.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "b.xlsx", wb.Name)

	_, err = s.Get(ctx, "s1", "missing.xlsx")
	assert.ErrorIs(t, err, domain.ErrWorkbookNotFound)
	_, err = s.Get(ctx, "other", "a.xlsx")
	assert.ErrorIs(t, err, domain.ErrWorkbookNotFound)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	require.NoError(t, s.Put(ctx, "s1", 0, domain.Workbook{Name: "a.xlsx"}))

	wbs, err := s.List(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, wbs)

	require.NoError(t, s.Clear(ctx, "s1"))
	wbs, err = s.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, wbs)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	require.NoError(t, s.Put(ctx, "s1", 0, domain.Workbook{Name: "a.xlsx"}))

	wbs, _ := s.List(ctx, "s1")
	wbs[0].Name = "changed"

	again, _ := s.List(ctx, "s1")
	assert.Equal(t, "a.xlsx", again[0].Name)
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "old", 0, domain.Workbook{Name: "a.xlsx"}))
	now = now.Add(50 * time.Minute)
	require.NoError(t, s.Put(ctx, "new", 0, domain.Workbook{Name: "b.xlsx"}))
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, s.Prune())
	assert.Equal(t, 1, s.Len())

	s.Touch("new")
	now = now.Add(59 * time.Minute)
	assert.Equal(t, 0, s.Prune())
}

func TestStore_PruneWithoutTTL(t *testing.T) {
	s := NewStore(0)
	require.NoError(t, s.Put(context.Background(), "s1", 0, domain.Workbook{Name: "a.xlsx"}))
	s.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	assert.Equal(t, 0, s.Prune())
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID("not-a-session"))
}

func TestStore_PutLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)

	require.NoError(t, s.Put(ctx, "s1", 2, domain.Workbook{Name: "a.xlsx"}))
	require.NoError(t, s.Put(ctx, "s1", 2, domain.Workbook{Name: "a.xlsx"}, domain.Workbook{Name: "b.xlsx"}))

	err := s.Put(ctx, "s1", 2, domain.Workbook{Name: "c.xlsx"})
	assert.ErrorIs(t, err, domain.ErrTooManyWorkbooks)
	wbs, err := s.List(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, wbs, 2)

	err = s.Put(ctx, "fresh", 1, domain.Workbook{Name: "a.xlsx"}, domain.Workbook{Name: "b.xlsx"})
	assert.ErrorIs(t, err, domain.ErrTooManyWorkbooks)
	wbs, err = s.List(ctx, "fresh")
	require.NoError(t, err)
	assert.Empty(t, wbs)
	assert.Equal(t, 1, s.Len())
}

func TestStore_PutLimitConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Hour)
	const limit = 3

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, "s1", limit, domain.Workbook{Name: fmt.Sprintf("f%d.xlsx", i)})
		}(i)
	}
	wg.Wait()

	wbs, err := s.List(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, wbs, limit)
}
