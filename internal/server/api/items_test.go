package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/showreel/internal/gallery"
	"github.com/ayusman/showreel/internal/sphere"
)

// fakeItems applies staged sets immediately, like a render tick would.
type fakeItems struct {
	gallery *gallery.Gallery
	saveErr error
	saved   int
}

func newFakeItems(items []gallery.Item) *fakeItems {
	f := &fakeItems{gallery: gallery.New(sphere.DefaultRadius, sphere.DefaultPolicy)}
	f.gallery.Stage(items)
	f.gallery.Sync()
	return f
}

func (f *fakeItems) Items() []gallery.Item  { return f.gallery.Items() }
func (f *fakeItems) Layout() gallery.Layout { return f.gallery.Layout() }

func (f *fakeItems) SetItems(items []gallery.Item) ([]gallery.Item, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	items = gallery.AssignIDs(items)
	f.saved++
	f.gallery.Stage(items)
	f.gallery.Sync()
	return items, nil
}

func TestItemHandler_Layout(t *testing.T) {
	items := newFakeItems(gallery.DefaultItems())
	h := NewItemHandler(items)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var resp layoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != 1 {
		t.Errorf("expected version 1, got %d", resp.Version)
	}
	if len(resp.Items) != gallery.DefaultItemCount {
		t.Fatalf("expected %d items, got %d", gallery.DefaultItemCount, len(resp.Items))
	}
	if resp.Items[0].ID != "item-0" {
		t.Errorf("expected item-0 first, got %s", resp.Items[0].ID)
	}
	// the spiral starts on the -Z pole
	if resp.Items[0].Position.Z > -6.19 {
		t.Errorf("expected first item at the -Z pole, got %+v", resp.Items[0].Position)
	}
}

func TestItemHandler_LayoutIsDuplicated(t *testing.T) {
	items := newFakeItems([]gallery.Item{{ID: "a", URL: "https://x/a.jpg"}, {ID: "b", URL: "https://x/b.jpg"}})
	h := NewItemHandler(items)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	var resp layoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 60 {
		t.Errorf("expected 60 placements, got %d", len(resp.Items))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items?view=raw", nil))

	var raw itemSetResponse
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(raw.Items) != 2 || raw.Items[0].ID != "a" {
		t.Errorf("expected the raw set, got %+v", raw.Items)
	}
}

func TestItemHandler_Replace(t *testing.T) {
	items := newFakeItems(gallery.DefaultItems())
	h := NewItemHandler(items)

	body := `{"items":[{"url":"https://x/1.jpg","title":"one"},{"id":"keep","url":"https://x/2.jpg"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d: %s", http.StatusAccepted, rec.Code, rec.Body.String())
	}

	var resp itemSetResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].ID == "" {
		t.Error("expected an id to be assigned")
	}
	if resp.Items[1].ID != "keep" {
		t.Errorf("expected id to be kept, got %s", resp.Items[1].ID)
	}
	if items.Layout().Version != 2 {
		t.Errorf("expected layout version 2, got %d", items.Layout().Version)
	}
}

func TestItemHandler_ReplaceEmpty(t *testing.T) {
	items := newFakeItems(gallery.DefaultItems())
	h := NewItemHandler(items)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/items", strings.NewReader(`{"items":[]}`)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("expected an empty array, got %s", rec.Body.String())
	}
	if n := len(items.Layout().Placements); n != 0 {
		t.Errorf("expected an empty layout, got %d placements", n)
	}
}

func TestItemHandler_ReplaceRejects(t *testing.T) {
	tooMany := itemSetRequest{Items: make([]gallery.Item, maxItems+1)}
	for i := range tooMany.Items {
		tooMany.Items[i].URL = "https://x/y.jpg"
	}
	tooManyBody, _ := json.Marshal(tooMany)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"items":`},
		{"missing url", `{"items":[{"id":"a"}]}`},
		{"too many items", string(tooManyBody)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newFakeItems(nil)
			h := NewItemHandler(items)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/items", bytes.NewBufferString(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if items.saved != 0 {
				t.Error("expected nothing to be saved")
			}
		})
	}
}

func TestItemHandler_ReplaceSaveError(t *testing.T) {
	items := newFakeItems(nil)
	items.saveErr = errors.New("disk full")
	h := NewItemHandler(items)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/items", strings.NewReader(`{"items":[{"url":"u"}]}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestItemHandler_MethodNotAllowed(t *testing.T) {
	h := NewItemHandler(newFakeItems(nil))

	for _, method := range []string{http.MethodPost, http.MethodDelete, http.MethodPatch} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/api/items", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
