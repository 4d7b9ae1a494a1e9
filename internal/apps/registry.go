package apps

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Catalog looks up application descriptors by id.
type Catalog interface {
	Lookup(id string) (Descriptor, bool)
}

// Registry is an immutable catalog. Build a new one to change its contents.
type Registry struct {
	byID  map[string]Descriptor
	order []string
}

// NewRegistry validates descriptors and builds a registry from them. Later
// entries replace earlier ones with the same id, keeping the earlier position.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[d.ID]; !exists {
			r.order = append(r.order, d.ID)
		}
		r.byID[d.ID] = d.clone()
	}
	return r, nil
}

// Builtin returns a registry holding only BuiltinApps.
func Builtin() *Registry {
	r, err := NewRegistry(BuiltinApps()...)
	if err != nil {
		panic(fmt.Sprintf("builtin app catalog is invalid: %v", err))
	}
	return r
}

// Lookup returns a copy of the descriptor for id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// IDs returns application ids in registration order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// SortedIDs returns application ids alphabetically.
func (r *Registry) SortedIDs() []string {
	ids := r.IDs()
	sort.Strings(ids)
	return ids
}

// List returns copies of every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].clone())
	}
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Live is a Catalog whose backing registry can be swapped atomically, for
// example when the catalog file changes on disk. Lookups always see one
// complete registry, never a partial update.
type Live struct {
	current atomic.Pointer[Registry]
}

// NewLive returns a Live catalog serving r.
func NewLive(r *Registry) *Live {
	l := &Live{}
	l.current.Store(r)
	return l
}

// Lookup implements Catalog.
func (l *Live) Lookup(id string) (Descriptor, bool) {
	return l.current.Load().Lookup(id)
}

// Registry returns the registry currently being served.
func (l *Live) Registry() *Registry {
	return l.current.Load()
}

// Swap replaces the served registry and returns the previous one.
func (l *Live) Swap(r *Registry) *Registry {
	return l.current.Swap(r)
}
