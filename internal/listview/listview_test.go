package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name   string
	status string
	date   string
}

func rows(n int) []row {
	items := make([]row, n)
	for i := range items {
		items[i] = row{name: fmt.Sprintf("item-%02d", i)}
	}
	return items
}

func newRowView(pageSize int) *View[row] {
	return New(pageSize, func(r row) []string { return []string{r.name} }).
		WithCategoryField(func(r row) string { return r.status }).
		WithDateField(func(r row) string { return r.date })
}

func TestPagingWindows(t *testing.T) {
	v := newRowView(4)
	v.SetItems(rows(10))

	assert.Equal(t, 3, v.TotalPages())
	assert.Equal(t, 1, v.PageNumber())
	assert.Len(t, v.Page(), 4)

	v.Next()
	assert.Len(t, v.Page(), 4)

	v.Next()
	assert.Equal(t, 3, v.PageNumber())
	assert.Len(t, v.Page(), 2, "last page holds the remainder")

	// Past the last page is a no-op.
	v.Next()
	assert.Equal(t, 3, v.PageNumber())
}

func TestPrevAtFirstPageIsNoOp(t *testing.T) {
	v := newRowView(4)
	v.SetItems(rows(10))

	v.Prev()
	assert.Equal(t, 1, v.PageNumber())
}

func TestSetPageClamps(t *testing.T) {
	v := newRowView(4)
	v.SetItems(rows(10))

	v.SetPage(99)
	assert.Equal(t, 3, v.PageNumber())

	v.SetPage(-5)
	assert.Equal(t, 1, v.PageNumber())
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	v := newRowView(10)
	v.SetItems([]row{{name: "Barong Tagalog"}, {name: "Salakot"}, {name: "Baro't Saya"}})

	v.SetSearch("BARO")
	filtered := v.Filtered()
	require.Len(t, filtered, 2)
	assert.Equal(t, "Barong Tagalog", filtered[0].name)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	v := newRowView(10)
	v.SetItems([]row{
		{name: "order-1", status: "Pending", date: "01/05/25"},
		{name: "order-2", status: "Pending", date: "02/10/25"},
		{name: "order-3", status: "Delivered", date: "01/05/25"},
	})

	v.SetSearch("order")
	v.SetCategory("Pending")
	v.SetDatePrefix("01/")

	filtered := v.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "order-1", filtered[0].name)
}

func TestChangingFilterResetsPage(t *testing.T) {
	v := newRowView(4)
	v.SetItems(rows(10))
	v.SetPage(3)

	v.SetSearch("item")
	assert.Equal(t, 1, v.PageNumber())

	v.SetPage(2)
	v.SetCategory("")
	assert.Equal(t, 1, v.PageNumber())
}

func TestEmptyFilteredCollection(t *testing.T) {
	v := newRowView(4)
	v.SetItems(rows(10))
	v.SetSearch("no such item")

	assert.Equal(t, 0, v.TotalPages())
	assert.Empty(t, v.Page())
}
