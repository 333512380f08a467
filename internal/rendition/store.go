package rendition

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Store.Get when no rendition matches.
var ErrNotFound = errors.New("rendition not found")

// Store indexes renditions by (image, spec, focal point key).
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the matching rendition or ErrNotFound.
	Get(ctx context.Context, imageID int64, spec, focalPointKey string) (*Rendition, error)

	// Create records r unless a rendition with the same key exists, in which
	// case the existing one is returned with created false.
	Create(ctx context.Context, r *Rendition) (existing *Rendition, created bool, err error)

	// List returns the renditions of an image ordered by spec.
	List(ctx context.Context, imageID int64) ([]*Rendition, error)

	// DeleteAll removes every rendition of an image and returns them.
	DeleteAll(ctx context.Context, imageID int64) ([]*Rendition, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.RWMutex
	renditions map[int64]map[string]*Rendition
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		renditions: make(map[int64]map[string]*Rendition),
	}
}

// Get returns the rendition of imageID for spec and focalPointKey, or
// ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, imageID int64, spec, focalPointKey string) (*Rendition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.renditions[imageID][renditionKey(imageID, spec, focalPointKey)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRendition(r), nil
}

// Create stores r unless a rendition with the same key exists. It returns
// the stored rendition and whether r was the one stored.
func (s *MemoryStore) Create(_ context.Context, r *Rendition) (*Rendition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.renditions[r.ImageID]
	if !ok {
		byKey = make(map[string]*Rendition)
		s.renditions[r.ImageID] = byKey
	}

	if existing, ok := byKey[r.key()]; ok {
		return cloneRendition(existing), false, nil
	}

	byKey[r.key()] = cloneRendition(r)
	return r, true, nil
}

// List returns the renditions of imageID ordered by spec and focal key.
func (s *MemoryStore) List(_ context.Context, imageID int64) ([]*Rendition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Rendition, 0, len(s.renditions[imageID]))
	for _, r := range s.renditions[imageID] {
		list = append(list, cloneRendition(r))
	}
	sortRenditions(list)
	return list, nil
}

// DeleteAll removes every rendition of imageID and returns the removed
// records so their files can be deleted.
func (s *MemoryStore) DeleteAll(_ context.Context, imageID int64) ([]*Rendition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*Rendition, 0, len(s.renditions[imageID]))
	for _, r := range s.renditions[imageID] {
		list = append(list, r)
	}
	delete(s.renditions, imageID)

	sortRenditions(list)
	return list, nil
}

func cloneRendition(r *Rendition) *Rendition {
	c := *r
	return &c
}

func sortRenditions(list []*Rendition) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].FilterSpec != list[j].FilterSpec {
			return list[i].FilterSpec < list[j].FilterSpec
		}
		return list[i].FocalPointKey < list[j].FocalPointKey
	})
}
