package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"fbrportal/internal/listview"
)

type fakeSheets struct {
	mu       sync.Mutex
	sheets   []string
	headers  bool
	requests []string
	appended [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.requests = append(f.requests, r.Method+" "+path)
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-123"):
		var list []map[string]interface{}
		for i, title := range f.sheets {
			list = append(list, map[string]interface{}{"properties": map[string]interface{}{"title": title, "sheetId": i}})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"sheets": list})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet *struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.Unmarshal(body, &req)
		var replies []map[string]interface{}
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.sheets = append(f.sheets, rq.AddSheet.Properties.Title)
				replies = append(replies, map[string]interface{}{
					"addSheet": map[string]interface{}{"properties": map[string]interface{}{"sheetId": 99}},
				})
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"replies": replies})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr struct {
			Values [][]interface{} `json:"values"`
		}
		json.Unmarshal(body, &vr)
		f.appended = append(f.appended, vr.Values...)
		w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		if f.headers {
			w.Write([]byte(`{"values":[["ID"]]}`))
			return
		}
		w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		f.headers = true
		w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestService(t *testing.T, fake *fakeSheets) *Service {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := NewService(context.Background(), "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	_, err = extractSpreadsheetID("https://example.com/nope")
	assert.Error(t, err)
}

func TestAppendTableCreatesSheetAndHeaders(t *testing.T) {
	fake := &fakeSheets{sheets: []string{"Sheet1"}}
	svc := newTestService(t, fake)

	table := listview.Table{
		Title:   "Invoices",
		Headers: []string{"ID", "Amount"},
		Rows:    [][]string{{"1", "1,500.00"}},
	}
	require.NoError(t, svc.AppendTable(context.Background(), table, ""))

	assert.Equal(t, []string{"Sheet1", "Invoices"}, fake.sheets)
	assert.True(t, fake.headers)
	assert.Equal(t, [][]interface{}{{"1", "1,500.00"}}, fake.appended)
}

func TestAppendTableExistingSheet(t *testing.T) {
	fake := &fakeSheets{sheets: []string{"Buyers"}, headers: true}
	svc := newTestService(t, fake)

	table := listview.Table{Title: "Buyers", Headers: []string{"ID"}, Rows: [][]string{{"7"}, {"8"}}}
	require.NoError(t, svc.AppendTable(context.Background(), table, "Buyers"))

	assert.Equal(t, []string{"Buyers"}, fake.sheets)
	assert.Len(t, fake.appended, 2)
	for _, req := range fake.requests {
		assert.NotContains(t, req, "PUT", "headers already present")
	}
}
