package store

import "github.com/mvoronova/skillscan/internal/model"

// Ensure NopStore implements model.PageStore.
var _ model.PageStore = (*NopStore)(nil)

// NopStore is a PageStore that persists nothing. Used when caching is disabled.
type NopStore struct{}

// NewNopStore returns a store that discards all pages.
func NewNopStore() *NopStore {
	return &NopStore{}
}

func (s *NopStore) SavePage(model.Query, int, []model.RawPosting) error { return nil }

func (s *NopStore) LoadAll() ([]model.RawPosting, error) { return nil, nil }

func (s *NopStore) Clear() error { return nil }
