package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/models"
)

// FilterOptions narrow an already fetched entry set.
// Zero-valued fields match everything.
type FilterOptions struct {
	Status string
	From   time.Time
	To     time.Time
	ShopID uuid.UUID
}

// Filter is a pure helper for ledger views: it never mutates the input
// slice and the same input always yields the same output.
func Filter(entries []models.Entry, opts FilterOptions) []models.Entry {
	filtered := make([]models.Entry, 0, len(entries))

	for _, e := range entries {
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		if opts.ShopID != uuid.Nil && e.ShopID != opts.ShopID {
			continue
		}
		if !opts.From.IsZero() && e.Date.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && e.Date.After(opts.To) {
			continue
		}

		filtered = append(filtered, e)
	}

	return filtered
}
