package seed_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"github.com/railzwaylabs/featuregate/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureFlagDefinitions(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Feature{}))
	ctx := context.Background()

	// An operator already turned this one on; seeding must not reset it.
	require.NoError(t, db.Create(&domain.Feature{Slug: domain.FlagOrganizations, Enabled: true}).Error)

	inserted, err := seed.EnsureFlagDefinitions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(domain.AppFlags)-1), inserted)

	var count int64
	require.NoError(t, db.Model(&domain.Feature{}).Count(&count).Error)
	assert.Equal(t, int64(len(domain.AppFlags)), count)

	var org domain.Feature
	require.NoError(t, db.First(&org, "slug = ?", domain.FlagOrganizations).Error)
	assert.True(t, org.Enabled)

	var emails domain.Feature
	require.NoError(t, db.First(&emails, "slug = ?", domain.FlagEmails).Error)
	assert.True(t, emails.Enabled)
	assert.Equal(t, domain.FeatureTypeKillSwitch, emails.Type)

	again, err := seed.EnsureFlagDefinitions(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestEnsureFlagDefinitions_RequiresHandle(t *testing.T) {
	_, err := seed.EnsureFlagDefinitions(context.Background(), nil)
	assert.Error(t, err)
}
