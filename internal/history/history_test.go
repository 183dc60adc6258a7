package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bpmnav/internal/db"
	"github.com/ziadkadry99/bpmnav/internal/errs"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "e1", ExportedAt: base, Project: "orders", Path: "a.html", Mode: "hierarchical", TotalProcesses: 2},
		{ID: "e2", ExportedAt: base.Add(time.Hour), Project: "billing", Path: "b.html", Mode: "flat", TotalProcesses: 1},
		{ID: "e3", ExportedAt: base.Add(2 * time.Hour), Project: "orders", Path: "c.html", Mode: "flat", TotalProcesses: 3},
	}
	for _, e := range entries {
		if _, err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}
}

func TestRecordAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	id, err := store.Record(ctx, Entry{
		ExportedAt:     at,
		Project:        "orders",
		Path:           "/tmp/navigator.html",
		Mode:           "hierarchical",
		TotalProcesses: 2,
		TotalShapes:    3,
		Bytes:          4096,
		Diagrams: []Diagram{
			{Index: 1, Title: "Payment", Filename: "payment.svg"},
			{Index: 0, Title: "Main Process", Filename: "main.svg", Shapes: 3},
		},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated ID")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Project != "orders" || got.Mode != "hierarchical" || got.Bytes != 4096 || got.TotalShapes != 3 {
		t.Errorf("entry = %+v", got)
	}
	if !got.ExportedAt.Equal(at) {
		t.Errorf("ExportedAt = %v, want %v", got.ExportedAt, at)
	}
	if len(got.Diagrams) != 2 || got.Diagrams[0].Index != 0 || got.Diagrams[0].Shapes != 3 {
		t.Errorf("Diagrams = %+v, want ordered by index", got.Diagrams)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestRecordRejectsUnknownMode(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Record(context.Background(), Entry{Path: "x.html", Mode: "tree"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestList(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	all, err := store.List(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "e3" || all[2].ID != "e1" {
		t.Errorf("List order = %+v, want newest first", all)
	}

	orders, _ := store.List(ctx, QueryFilter{Project: "orders"})
	if len(orders) != 2 {
		t.Errorf("project filter returned %d", len(orders))
	}

	since := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	recent, _ := store.List(ctx, QueryFilter{Since: &since})
	if len(recent) != 2 {
		t.Errorf("since filter returned %d", len(recent))
	}

	page, _ := store.List(ctx, QueryFilter{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].ID != "e2" {
		t.Errorf("page = %+v", page)
	}
	tail, _ := store.List(ctx, QueryFilter{Offset: 2})
	if len(tail) != 1 || tail[0].ID != "e1" {
		t.Errorf("offset without limit = %+v", tail)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	n, err := store.DeleteBefore(ctx, time.Date(2026, 1, 10, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, _ := store.List(ctx, QueryFilter{})
	if len(left) != 1 || left[0].ID != "e3" {
		t.Errorf("remaining = %+v", left)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/exports?project=orders&limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var entries []Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/exports/e2", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/exports/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}
