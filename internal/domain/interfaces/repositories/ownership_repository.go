// Package repositories defines interfaces for loading domain data.
package repositories

import (
	"context"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// OwnershipDataRepository loads hand-maintained ownership records from a data file
type OwnershipDataRepository interface {
	LoadOwnershipData(ctx context.Context, path string) ([]entities.OwnershipRecord, error)
}
