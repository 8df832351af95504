package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"gorm.io/gorm"
)

func seedCategories(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for i, name := range names {
		require.NoError(t, db.Create(&models.Category{Name: name, SortOrder: i + 1}).Error)
	}
}

func names(list []models.Category) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}

func sortOrders(list []models.Category) []int {
	out := make([]int, 0, len(list))
	for _, c := range list {
		out = append(out, c.SortOrder)
	}
	return out
}

func TestMoveCategory(t *testing.T) {
	list := []models.Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}, {ID: 5, Name: "E"}}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"index 2 to 0", 2, 0, []string{"C", "A", "B", "D", "E"}},
		{"first to last", 0, 4, []string{"B", "C", "D", "E", "A"}},
		{"last to first", 4, 0, []string{"E", "A", "B", "C", "D"}},
		{"same position", 3, 3, []string{"A", "B", "C", "D", "E"}},
		{"one down", 1, 2, []string{"A", "C", "B", "D", "E"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveCategory(list, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(list), "input must not change")
}

func TestMoveCategoryRejectsBadIndex(t *testing.T) {
	list := []models.Category{{ID: 1}, {ID: 2}}
	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		_, err := MoveCategory(list, idx[0], idx[1])
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}
}

func TestReorderAssignsDenseSortOrder(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	seedCategories(t, db, "A", "B", "C", "D", "E")

	r := NewCategoryReorderer(db)
	got, err := r.Reorder(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D", "E"}, names(got))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sortOrders(got))

	stored, err := LoadOrderedCategories(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D", "E"}, names(stored))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sortOrders(stored))
}

func TestReorderFailureReturnsStoredOrder(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	seedCategories(t, db, "A", "B", "C", "D", "E")

	writes := 0
	boom := errors.New("connection reset")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_third_write", func(tx *gorm.DB) {
		if tx.Statement.Table != "categories" {
			return
		}
		writes++
		if writes == 3 {
			tx.AddError(boom)
		}
	}))

	r := NewCategoryReorderer(db)
	got, err := r.Reorder(context.Background(), 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, writes, "remaining writes must be abandoned")

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(got))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, sortOrders(got))
}

func TestReorderRejectsConcurrentReorder(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	seedCategories(t, db, "A", "B")

	r := NewCategoryReorderer(db)
	r.inFlight.Store(true)
	_, err = r.Reorder(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrReorderInProgress)

	r.inFlight.Store(false)
	_, err = r.Reorder(context.Background(), 0, 1)
	assert.NoError(t, err)
}

func TestRenumberAndNextSortOrder(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	ctx := context.Background()
	r := NewCategoryReorderer(db)

	next, err := r.NextSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, db.Create(&models.Category{Name: "A", SortOrder: 2}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "B", SortOrder: 7}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "C", SortOrder: 4}).Error)

	next, err = r.NextSortOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, next)

	got, err := r.Renumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names(got))
	assert.Equal(t, []int{1, 2, 3}, sortOrders(got))
}
