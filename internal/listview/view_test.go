package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	name  string
	count int
}

var rowKeys = map[string]Compare[row]{
	"name":  ByString(func(r row) string { return r.name }),
	"count": func(a, b row) int { return a.count - b.count },
}

func sampleRows() []row {
	return []row{{"delta", 4}, {"alpha", 1}, {"charlie", 3}, {"bravo", 2}, {"echo", 5}}
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestSortToggle(t *testing.T) {
	s := Sort{Key: "name", Direction: Asc}
	assert.Equal(t, Sort{Key: "name", Direction: Desc}, s.Toggle("name"))
	assert.Equal(t, Sort{Key: "name", Direction: Asc}, s.Toggle("name").Toggle("name"))
	assert.Equal(t, Sort{Key: "count", Direction: Asc}, s.Toggle("count"))
}

func TestViewRows(t *testing.T) {
	v := New(sampleRows(), rowKeys, 2)
	v.SetSort(Sort{Key: "name", Direction: Asc})

	p := v.Rows()
	assert.Equal(t, []string{"alpha", "bravo"}, names(p.Rows))
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.Pages)

	v.SetPage(3)
	assert.Equal(t, []string{"echo"}, names(v.Rows().Rows))

	v.ToggleSort("name")
	v.SetPage(1)
	assert.Equal(t, []string{"echo", "delta"}, names(v.Rows().Rows))
}

func TestViewFilterResetsPage(t *testing.T) {
	v := New(sampleRows(), rowKeys, 2)
	v.SetPage(3)
	v.SetFilter(func(r row) bool { return r.count > 3 })

	p := v.Rows()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Pages)
	assert.Equal(t, []string{"delta", "echo"}, names(p.Rows))
}

func TestViewUnknownSortKeepsOrder(t *testing.T) {
	v := New(sampleRows(), rowKeys, 10)
	v.SetSort(Sort{Key: "missing", Direction: Desc})
	assert.Equal(t, names(sampleRows()), names(v.Rows().Rows))
}

func TestViewEmpty(t *testing.T) {
	v := New[row](nil, rowKeys, 0)
	p := v.Rows()
	assert.Empty(t, p.Rows)
	assert.Equal(t, 1, p.Pages)
	assert.Equal(t, 10, p.PageSize)
}

func TestViewSortIsStable(t *testing.T) {
	rows := []row{{"b", 1}, {"a", 1}, {"c", 0}}
	v := New(rows, rowKeys, 10)
	v.SetSort(Sort{Key: "count", Direction: Asc})
	assert.Equal(t, []string{"c", "b", "a"}, names(v.Filtered()))
}

func TestSummaryGroupsTotal(t *testing.T) {
	assert.Equal(t, "Page 2 of 3 (5 total)", Summary(Page[row]{Page: 2, Pages: 3, Total: 5}))
	assert.Equal(t, "Page 1 of 52 (1,234 total)", Summary(Page[row]{Page: 1, Pages: 52, Total: 1234}))
}
