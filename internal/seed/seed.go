package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureFlagDefinitions inserts a features row for every registered flag
// that does not have one yet. Existing rows, including their enabled bit,
// are left untouched. It returns the number of rows inserted.
func EnsureFlagDefinitions(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	keys := make([]string, 0, len(domain.AppFlags))
	for key := range domain.AppFlags {
		if !slug.IsSlug(string(key)) {
			return 0, fmt.Errorf("flag %q: %w", key, domain.ErrInvalidFlagKey)
		}
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	rows := make([]domain.Feature, 0, len(keys))
	for _, key := range keys {
		def := domain.AppFlags[domain.FlagKey(key)]
		description := def.Description
		rows = append(rows, domain.Feature{
			Slug:        def.Key,
			Enabled:     def.Enabled,
			Description: &description,
			Type:        def.Type,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	var inserted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&rows)
		if result.Error != nil {
			return result.Error
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
