package repository

import (
	"context"

	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"gorm.io/gorm"
)

const (
	selectFeatureQuery = `SELECT slug, enabled, description, type, stale, created_at, updated_at
		 FROM features WHERE slug = ? LIMIT 1`
	selectUserFeatureQuery = `SELECT user_id, feature_id, assigned_by, assigned_at
		 FROM user_features WHERE user_id = ? AND feature_id = ? LIMIT 1`
	selectUserInTeamWithFeatureQuery = `SELECT u.id FROM users u
		 WHERE u.id = ? AND EXISTS (
		     SELECT 1 FROM memberships m
		     JOIN team_features tf ON tf.team_id = m.team_id
		     WHERE m.user_id = u.id AND tf.feature_id = ?
		 ) LIMIT 1`
	selectTeamFeatureQuery = `SELECT team_id, feature_id, assigned_by, assigned_at
		 FROM team_features WHERE team_id = ? AND feature_id = ? LIMIT 1`
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindFeature(ctx context.Context, key domain.FlagKey) (*domain.Feature, error) {
	var f domain.Feature
	result := r.db.WithContext(ctx).Raw(selectFeatureQuery, string(key)).Scan(&f)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repo) FindUserFeature(ctx context.Context, userID int64, featureID string) (*domain.UserFeature, error) {
	var uf domain.UserFeature
	result := r.db.WithContext(ctx).Raw(selectUserFeatureQuery, userID, featureID).Scan(&uf)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &uf, nil
}

func (r *repo) UserInTeamWithFeature(ctx context.Context, userID int64, featureID string) (bool, error) {
	var id int64
	result := r.db.WithContext(ctx).Raw(selectUserInTeamWithFeatureQuery, userID, featureID).Scan(&id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindTeamFeature(ctx context.Context, key domain.TeamFeatureKey) (*domain.TeamFeature, error) {
	var tf domain.TeamFeature
	result := r.db.WithContext(ctx).Raw(selectTeamFeatureQuery, key.TeamID, string(key.FeatureID)).Scan(&tf)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &tf, nil
}
