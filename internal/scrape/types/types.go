package types

import (
	"context"

	"jobfeed/internal/domain"
)

// Fetcher pulls one raw collection from a job source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (domain.RawCollection, error)
}
