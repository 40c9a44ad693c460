// Package rangequery looks up the rows of a depth table within a depth range.
package rangequery

import (
	"context"
	"fmt"

	"github.com/roach88/depthview/internal/model"
)

// Ranger is the storage capability the service needs.
// *store.Store implements it.
type Ranger interface {
	QueryRange(ctx context.Context, name string, depthMin, depthMax float64) (model.Slice, error)
}

// Service answers range queries against one table.
type Service struct {
	store Ranger
	table string
}

// New creates a Service reading from the named table of st.
func New(st Ranger, table string) *Service {
	return &Service{store: st, table: table}
}

// Table returns the table the service reads from.
func (s *Service) Table() string {
	return s.table
}

// Range returns the depths in [depthMin, depthMax] and their sample vectors,
// in the order the store returns them. depthMin > depthMax is not rejected; it
// simply matches nothing.
func (s *Service) Range(ctx context.Context, depthMin, depthMax float64) (model.Slice, error) {
	slice, err := s.store.QueryRange(ctx, s.table, depthMin, depthMax)
	if err != nil {
		return model.Slice{}, fmt.Errorf("range [%g, %g] on %s: %w", depthMin, depthMax, s.table, err)
	}
	return slice, nil
}
