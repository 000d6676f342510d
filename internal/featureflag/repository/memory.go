package repository

import (
	"context"
	"sync"

	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
)

type userFeatureKey struct {
	UserID    int64
	FeatureID domain.FlagKey
}

// Memory is a map-backed domain.Repository. It is safe for concurrent use.
type Memory struct {
	mu           sync.RWMutex
	features     map[domain.FlagKey]domain.Feature
	users        map[int64]struct{}
	memberships  map[int64]map[int64]struct{}
	userFeatures map[userFeatureKey]domain.UserFeature
	teamFeatures map[domain.TeamFeatureKey]domain.TeamFeature
}

func NewMemory() *Memory {
	return &Memory{
		features:     make(map[domain.FlagKey]domain.Feature),
		users:        make(map[int64]struct{}),
		memberships:  make(map[int64]map[int64]struct{}),
		userFeatures: make(map[userFeatureKey]domain.UserFeature),
		teamFeatures: make(map[domain.TeamFeatureKey]domain.TeamFeature),
	}
}

func (m *Memory) PutFeature(f domain.Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.features[f.Slug] = f
}

func (m *Memory) AddUser(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = struct{}{}
}

// AddMembership registers the user as a member of the team, creating the
// user if needed.
func (m *Memory) AddMembership(userID, teamID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = struct{}{}
	teams, ok := m.memberships[userID]
	if !ok {
		teams = make(map[int64]struct{})
		m.memberships[userID] = teams
	}
	teams[teamID] = struct{}{}
}

func (m *Memory) GrantUser(grant domain.UserFeature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userFeatures[userFeatureKey{UserID: grant.UserID, FeatureID: grant.FeatureID}] = grant
}

func (m *Memory) GrantTeam(grant domain.TeamFeature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamFeatures[grant.Key()] = grant
}

func (m *Memory) FindFeature(_ context.Context, key domain.FlagKey) (*domain.Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.features[key]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *Memory) FindUserFeature(_ context.Context, userID int64, featureID string) (*domain.UserFeature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uf, ok := m.userFeatures[userFeatureKey{UserID: userID, FeatureID: domain.FlagKey(featureID)}]
	if !ok {
		return nil, nil
	}
	return &uf, nil
}

func (m *Memory) UserInTeamWithFeature(_ context.Context, userID int64, featureID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.users[userID]; !ok {
		return false, nil
	}
	for teamID := range m.memberships[userID] {
		key := domain.TeamFeatureKey{TeamID: teamID, FeatureID: domain.FlagKey(featureID)}
		if _, ok := m.teamFeatures[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) FindTeamFeature(_ context.Context, key domain.TeamFeatureKey) (*domain.TeamFeature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tf, ok := m.teamFeatures[key]
	if !ok {
		return nil, nil
	}
	return &tf, nil
}
