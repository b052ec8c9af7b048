package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/query"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/itemsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemsearch/internal/usecase/search"
)

// --- Mocks ---

type mockEngine struct {
	hits  []result.Hit
	err   error
	plans []*query.Plan
}

func (m *mockEngine) Search(_ context.Context, plan *query.Plan) ([]result.Hit, error) {
	m.plans = append(m.plans, plan)
	return m.hits, m.err
}

type mockItems struct {
	items map[string]item.Item
}

func (m *mockItems) Get(_ context.Context, id string) (item.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return item.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Helpers ---

func hits(ids ...string) []result.Hit {
	out := make([]result.Hit, len(ids))
	for i, id := range ids {
		out[i] = result.NewHit(id, float64(len(ids)-i), nil)
	}
	return out
}

func activeItems(ids ...string) *mockItems {
	m := &mockItems{items: make(map[string]item.Item, len(ids))}
	for _, id := range ids {
		m.items[id] = item.Item{ID: id, Title: "item " + id, UserID: "u1", Status: item.StatusActive}
	}
	return m
}

func newTestRouter(engine *mockEngine, items *mockItems, enginePing error) http.Handler {
	svc := searchuc.New(engine, items, searchuc.Config{Index: "item", DefaultPageSize: 3, MaxPageSize: 10}, nil)
	health := healthuc.New(&mockPinger{}, &mockPinger{err: enginePing}, nil)

	r := chi.NewRouter()
	r.Use(ViewerMiddleware)
	NewServer(svc, health, nil).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodePage(t *testing.T, rr *httptest.ResponseRecorder) PageResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var page PageResponse
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return page
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearch_EmptyQuery(t *testing.T) {
	engine := &mockEngine{}
	rr := do(t, newTestRouter(engine, activeItems(), nil), "/search?q=", nil)

	page := decodePage(t, rr)
	if len(page.Items) != 0 || page.Cursor != nil {
		t.Errorf("expected empty page, got %d items cursor=%v", len(page.Items), page.Cursor)
	}
	if len(engine.plans) != 0 {
		t.Error("engine must not be called for an empty query")
	}
}

func TestSearch_EmptyPageEncodesEmptyArray(t *testing.T) {
	rr := do(t, newTestRouter(&mockEngine{}, activeItems(), nil), "/search", nil)

	want := `{"items":[],"cursor":null}` + "\n"
	if rr.Body.String() != want {
		t.Errorf("body: got %q, want %q", rr.Body.String(), want)
	}
}

func TestSearch_FullPageReturnsCursor(t *testing.T) {
	engine := &mockEngine{hits: hits("1", "2", "3")}
	rr := do(t, newTestRouter(engine, activeItems("1", "2", "3"), nil), "/search?q=bitcoin&sort=recent", nil)

	page := decodePage(t, rr)
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != "1" || page.Items[0].SearchTitle != "item 1" {
		t.Errorf("unexpected first item: %+v", page.Items[0])
	}
	if page.Cursor == nil || *page.Cursor == "" {
		t.Fatal("expected a cursor for a full page")
	}

	rr = do(t, newTestRouter(engine, activeItems("1", "2", "3"), nil),
		"/search?q=bitcoin&sort=recent&cursor="+*page.Cursor, nil)
	decodePage(t, rr)
	if got := engine.plans[len(engine.plans)-1].From; got != 3 {
		t.Errorf("second page from: got %d, want 3", got)
	}
}

func TestSearch_ShortPageHasNoCursor(t *testing.T) {
	engine := &mockEngine{hits: hits("1")}
	page := decodePage(t, do(t, newTestRouter(engine, activeItems("1"), nil), "/search?q=bitcoin", nil))

	if len(page.Items) != 1 || page.Cursor != nil {
		t.Errorf("expected one item and no cursor, got %d items cursor=%v", len(page.Items), page.Cursor)
	}
}

func TestSearch_EngineFailureIsEmptyPage(t *testing.T) {
	engine := &mockEngine{err: errors.New("boom")}
	page := decodePage(t, do(t, newTestRouter(engine, activeItems(), nil), "/search?q=bitcoin", nil))

	if len(page.Items) != 0 || page.Cursor != nil {
		t.Errorf("expected empty page, got %d items", len(page.Items))
	}
}

func TestSearch_ValidationFailed(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"sort", "/search?q=x&sort=top"},
		{"what", "/search?q=x&what=links"},
		{"when", "/search?q=x&when=decade"},
		{"from", "/search?q=x&when=custom&from=yesterday"},
		{"from after to", "/search?q=x&from=2024-02-01T00:00:00Z&to=2024-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{}
			rr := do(t, newTestRouter(engine, activeItems(), nil), tt.target, nil)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
				t.Errorf("code: got %s, want %s", resp.Code, CodeValidationFailed)
			}
			if len(engine.plans) != 0 {
				t.Error("engine must not be called for an invalid request")
			}
		})
	}
}

func TestSearch_ExplicitBoundsImplyCustomWindow(t *testing.T) {
	engine := &mockEngine{}
	rr := do(t, newTestRouter(engine, activeItems(), nil), "/search?q=x&from=2024-01-01T00:00:00Z", nil)
	decodePage(t, rr)

	if len(engine.plans) != 1 {
		t.Fatalf("expected one engine call, got %d", len(engine.plans))
	}
	root, ok := engine.plans[0].Query.Query.(query.Bool)
	if !ok {
		t.Fatalf("unexpected root clause %T", engine.plans[0].Query.Query)
	}
	found := false
	for _, f := range root.Filter {
		if tr, ok := f.(query.TimeRange); ok && tr.GTE.Year() == 2024 {
			found = true
		}
	}
	if !found {
		t.Error("expected a createdAt lower bound from the from parameter")
	}
}

func TestSearch_ViewerSeesOwnHiddenItem(t *testing.T) {
	items := &mockItems{items: map[string]item.Item{
		"1": {ID: "1", Title: "draft", UserID: "u7", Status: item.StatusPending},
	}}
	engine := &mockEngine{hits: hits("1")}
	h := newTestRouter(engine, items, nil)

	if page := decodePage(t, do(t, h, "/search?q=draft", nil)); len(page.Items) != 0 {
		t.Errorf("anonymous viewer: expected hidden item dropped, got %d items", len(page.Items))
	}
	page := decodePage(t, do(t, h, "/search?q=draft", map[string]string{ViewerHeader: "u7"}))
	if len(page.Items) != 1 {
		t.Errorf("owner: expected 1 item, got %d", len(page.Items))
	}
}

func TestRelated_NoAnchor(t *testing.T) {
	engine := &mockEngine{}
	page := decodePage(t, do(t, newTestRouter(engine, activeItems(), nil), "/related", nil))

	if len(page.Items) != 0 || page.Cursor != nil {
		t.Error("expected empty page without anchor")
	}
	if len(engine.plans) != 0 {
		t.Error("engine must not be called without an anchor")
	}
}

func TestRelated_LimitSetsPageSize(t *testing.T) {
	engine := &mockEngine{hits: hits("1", "2")}
	rr := do(t, newTestRouter(engine, activeItems("1", "2"), nil), "/related?title=lightning+network&limit=2", nil)

	page := decodePage(t, rr)
	if len(page.Items) != 2 || page.Cursor == nil {
		t.Errorf("expected 2 items with a cursor, got %d cursor=%v", len(page.Items), page.Cursor)
	}
	if engine.plans[0].Size != 2 {
		t.Errorf("plan size: got %d, want 2", engine.plans[0].Size)
	}
}

func TestRelated_ValidationFailed(t *testing.T) {
	for _, target := range []string{
		"/related?title=x&limit=abc",
		"/related?title=x&min_match=most",
	} {
		rr := do(t, newTestRouter(&mockEngine{}, activeItems(), nil), target, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", target, rr.Code)
			continue
		}
		if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
			t.Errorf("%s: code %s", target, resp.Code)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		enginePing error
		wantStatus int
		wantBody   healthuc.Status
	}{
		{"healthy", nil, http.StatusOK, healthuc.Healthy},
		{"engine down", errors.New("refused"), http.StatusServiceUnavailable, healthuc.Unhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newTestRouter(&mockEngine{}, activeItems(), tt.enginePing), "/health", nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("status field: got %q, want %q", resp.Status, tt.wantBody)
			}
			if resp.Checks[healthuc.CheckItems] != healthuc.CheckOK {
				t.Errorf("items check: got %q", resp.Checks[healthuc.CheckItems])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := do(t, newTestRouter(&mockEngine{}, activeItems(), nil), "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestPageToResponse(t *testing.T) {
	resp := pageToResponse(result.Page{})
	if resp.Items == nil || resp.Cursor != nil {
		t.Errorf("empty page: items=%v cursor=%v", resp.Items, resp.Cursor)
	}

	resp = pageToResponse(result.Page{Items: []item.Item{{ID: strconv.Itoa(1)}}, Cursor: "abc"})
	if resp.Cursor == nil || *resp.Cursor != "abc" {
		t.Errorf("cursor: got %v", resp.Cursor)
	}
}
