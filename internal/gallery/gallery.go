// Package gallery holds the item set shown on the sphere and its current layout.
package gallery

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/showreel/internal/sphere"
)

// DefaultItemCount is the size of the stock item set.
const DefaultItemCount = 65

// Item is an image shown on the sphere.
type Item struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// DefaultItems returns the stock placeholder set.
func DefaultItems() []Item {
	items := make([]Item, DefaultItemCount)
	for i := range items {
		items[i] = Item{
			ID:  fmt.Sprintf("item-%d", i),
			URL: fmt.Sprintf("https://picsum.photos/seed/%d/500/650", i+200),
		}
	}
	return items
}

// AssignIDs returns a copy of items where every empty id is replaced by a
// fresh UUID.
func AssignIDs(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		out[i] = item
	}
	return out
}

// Entries converts items to layout entries.
func Entries(items []Item) []sphere.Entry {
	entries := make([]sphere.Entry, len(items))
	for i, item := range items {
		entries[i] = sphere.Entry{ID: item.ID, URL: item.URL}
	}
	return entries
}

// Layout is a packed item set. Version increases with every rebuild.
type Layout struct {
	Version    uint64             `json:"version"`
	Placements []sphere.Placement `json:"items"`
}

// Gallery owns the raw item set and its layout. New sets may be staged from
// any goroutine; they only take effect when the render loop calls Sync, so a
// tick never sees a half-built layout.
type Gallery struct {
	radius float64
	policy sphere.Policy

	mu      sync.RWMutex
	items   []Item
	staged  []Item
	stageN  uint64
	pending bool
	layout  Layout
}

// New creates an empty Gallery.
func New(radius float64, policy sphere.Policy) *Gallery {
	return &Gallery{
		radius: radius,
		policy: policy,
		items:  []Item{},
		layout: Layout{Placements: []sphere.Placement{}},
	}
}

// Stage queues items to replace the current set on the next Sync. A later
// Stage before Sync wins.
func (g *Gallery) Stage(items []Item) {
	staged := make([]Item, len(items))
	copy(staged, items)

	g.mu.Lock()
	g.staged = staged
	g.stageN++
	g.pending = true
	g.mu.Unlock()
}

// Sync applies a staged set: duplication, then a full repack. It reports
// whether the layout changed.
func (g *Gallery) Sync() (Layout, bool) {
	g.mu.RLock()
	pending := g.pending
	staged := g.staged
	n := g.stageN
	layout := g.layout
	g.mu.RUnlock()

	if !pending {
		return layout, false
	}

	entries := sphere.Expand(Entries(staged), g.policy)
	placements := sphere.Pack(entries, g.radius)

	g.mu.Lock()
	defer g.mu.Unlock()
	// a Stage that raced with the repack is picked up on the next Sync
	if g.stageN == n {
		g.pending = false
		g.staged = nil
	}
	g.items = staged
	g.layout = Layout{Version: g.layout.Version + 1, Placements: placements}
	return g.layout, true
}

// Layout returns the current layout. Its placements must not be modified.
func (g *Gallery) Layout() Layout {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.layout
}

// Items returns a copy of the raw set behind the current layout.
func (g *Gallery) Items() []Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Item, len(g.items))
	copy(out, g.items)
	return out
}

// Pending reports whether a staged set is waiting for Sync.
func (g *Gallery) Pending() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pending
}
