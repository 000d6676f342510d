package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"github.com/railzwaylabs/featuregate/internal/featureflag/repository"
	"github.com/railzwaylabs/featuregate/internal/featureflag/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) FindFeature(ctx context.Context, key domain.FlagKey) (*domain.Feature, error) {
	args := m.Called(ctx, key)
	f, _ := args.Get(0).(*domain.Feature)
	return f, args.Error(1)
}

func (m *MockRepo) FindUserFeature(ctx context.Context, userID int64, featureID string) (*domain.UserFeature, error) {
	args := m.Called(ctx, userID, featureID)
	uf, _ := args.Get(0).(*domain.UserFeature)
	return uf, args.Error(1)
}

func (m *MockRepo) UserInTeamWithFeature(ctx context.Context, userID int64, featureID string) (bool, error) {
	args := m.Called(ctx, userID, featureID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) FindTeamFeature(ctx context.Context, key domain.TeamFeatureKey) (*domain.TeamFeature, error) {
	args := m.Called(ctx, key)
	tf, _ := args.Get(0).(*domain.TeamFeature)
	return tf, args.Error(1)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) IsEnabled(ctx context.Context, store domain.Repository, key domain.FlagKey) (bool, error) {
	args := m.Called(ctx, store, key)
	return args.Bool(0), args.Error(1)
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) CaptureException(ctx context.Context, err error) {
	m.Called(ctx, err)
}

func newService(repo domain.Repository, eval domain.GlobalEvaluator, reporter domain.ErrorReporter) domain.Service {
	return service.New(service.Params{
		Log:       zap.NewNop(),
		Repo:      repo,
		Evaluator: eval,
		Reporter:  reporter,
	})
}

// --- Tests ---

func TestIsGloballyEnabled_ReturnsEvaluatorResult(t *testing.T) {
	for _, want := range []bool{true, false} {
		repo := new(MockRepo)
		eval := new(MockEvaluator)
		reporter := new(MockReporter)
		svc := newService(repo, eval, reporter)

		eval.On("IsEnabled", mock.Anything, repo, domain.FlagInsights).Return(want, nil).Once()

		got, err := svc.IsGloballyEnabled(context.Background(), domain.FlagInsights)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		eval.AssertExpectations(t)
		reporter.AssertNotCalled(t, "CaptureException", mock.Anything, mock.Anything)
	}
}

func TestIsGloballyEnabled_ReportsAndReturnsSameError(t *testing.T) {
	repo := new(MockRepo)
	eval := new(MockEvaluator)
	reporter := new(MockReporter)
	svc := newService(repo, eval, reporter)

	boom := errors.New("malformed flag config")
	eval.On("IsEnabled", mock.Anything, repo, domain.FlagInsights).Return(false, boom).Once()
	reporter.On("CaptureException", mock.Anything, boom).Return().Once()

	_, err := svc.IsGloballyEnabled(context.Background(), domain.FlagInsights)
	assert.Same(t, boom, err)
	reporter.AssertNumberOfCalls(t, "CaptureException", 1)
}

func TestUserHasFeature_DirectGrantShortCircuits(t *testing.T) {
	repo := new(MockRepo)
	reporter := new(MockReporter)
	svc := newService(repo, new(MockEvaluator), reporter)

	repo.On("FindUserFeature", mock.Anything, int64(1), "new-ui").
		Return(&domain.UserFeature{UserID: 1, FeatureID: domain.FlagNewUI}, nil).Once()
	// The team path would fail if it were reached.
	repo.On("UserInTeamWithFeature", mock.Anything, int64(1), "new-ui").
		Return(false, errors.New("team lookup must not run")).Maybe()

	ok, err := svc.UserHasFeature(context.Background(), 1, "new-ui")
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertNotCalled(t, "UserInTeamWithFeature", mock.Anything, mock.Anything, mock.Anything)
	reporter.AssertNotCalled(t, "CaptureException", mock.Anything, mock.Anything)
}

func TestUserHasFeature_FallsBackToTeamMembership(t *testing.T) {
	for _, viaTeam := range []bool{true, false} {
		repo := new(MockRepo)
		svc := newService(repo, new(MockEvaluator), new(MockReporter))

		repo.On("FindUserFeature", mock.Anything, int64(2), "new-ui").Return(nil, nil).Once()
		repo.On("UserInTeamWithFeature", mock.Anything, int64(2), "new-ui").Return(viaTeam, nil).Once()

		ok, err := svc.UserHasFeature(context.Background(), 2, "new-ui")
		require.NoError(t, err)
		assert.Equal(t, viaTeam, ok)
		repo.AssertExpectations(t)
	}
}

func TestUserHasFeature_DirectLookupErrorIsNotFalse(t *testing.T) {
	repo := new(MockRepo)
	reporter := new(MockReporter)
	svc := newService(repo, new(MockEvaluator), reporter)

	boom := errors.New("connection refused")
	repo.On("FindUserFeature", mock.Anything, int64(1), "new-ui").Return(nil, boom).Once()
	reporter.On("CaptureException", mock.Anything, boom).Return().Once()

	_, err := svc.UserHasFeature(context.Background(), 1, "new-ui")
	assert.Same(t, boom, err)
	repo.AssertNotCalled(t, "UserInTeamWithFeature", mock.Anything, mock.Anything, mock.Anything)
	reporter.AssertNumberOfCalls(t, "CaptureException", 1)
}

func TestUserHasFeature_TeamLookupErrorReportedOnce(t *testing.T) {
	repo := new(MockRepo)
	reporter := new(MockReporter)
	svc := newService(repo, new(MockEvaluator), reporter)

	boom := errors.New("query timeout")
	repo.On("FindUserFeature", mock.Anything, int64(2), "new-ui").Return(nil, nil).Once()
	repo.On("UserInTeamWithFeature", mock.Anything, int64(2), "new-ui").Return(false, boom).Once()
	reporter.On("CaptureException", mock.Anything, boom).Return().Once()

	_, err := svc.UserHasFeature(context.Background(), 2, "new-ui")
	assert.ErrorIs(t, err, boom)
	assert.Same(t, boom, err)
	reporter.AssertNumberOfCalls(t, "CaptureException", 1)
}

func TestTeamHasFeature_UsesCompositeKey(t *testing.T) {
	repo := new(MockRepo)
	svc := newService(repo, new(MockEvaluator), new(MockReporter))

	key := domain.TeamFeatureKey{TeamID: 10, FeatureID: domain.FlagNewUI}
	repo.On("FindTeamFeature", mock.Anything, key).Return(&domain.TeamFeature{TeamID: 10, FeatureID: domain.FlagNewUI}, nil).Once()
	repo.On("FindTeamFeature", mock.Anything, domain.TeamFeatureKey{TeamID: 10, FeatureID: "other-flag"}).Return(nil, nil).Once()

	ok, err := svc.TeamHasFeature(context.Background(), 10, domain.FlagNewUI)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.TeamHasFeature(context.Background(), 10, "other-flag")
	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestTeamHasFeature_ReportsAndReturnsSameError(t *testing.T) {
	repo := new(MockRepo)
	reporter := new(MockReporter)
	svc := newService(repo, new(MockEvaluator), reporter)

	boom := errors.New("store unreachable")
	repo.On("FindTeamFeature", mock.Anything, mock.Anything).Return(nil, boom).Once()
	reporter.On("CaptureException", mock.Anything, boom).Return().Once()

	_, err := svc.TeamHasFeature(context.Background(), 10, domain.FlagNewUI)
	assert.Same(t, boom, err)
	reporter.AssertNumberOfCalls(t, "CaptureException", 1)
}

func TestScenarios_InMemoryStore(t *testing.T) {
	store := repository.NewMemory()
	store.GrantUser(domain.UserFeature{UserID: 1, FeatureID: domain.FlagNewUI})
	store.AddMembership(2, 10)
	store.GrantTeam(domain.TeamFeature{TeamID: 10, FeatureID: domain.FlagNewUI})
	store.AddMembership(3, 11)
	store.AddUser(5)

	svc := newService(store, new(MockEvaluator), new(MockReporter))
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{name: "direct grant", userID: 1, want: true},
		{name: "team grant", userID: 2, want: true},
		{name: "team without grant", userID: 3, want: false},
		{name: "unknown user", userID: 4, want: false},
		{name: "user without teams", userID: 5, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UserHasFeature(ctx, tt.userID, "new-ui")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	ok, err := svc.TeamHasFeature(ctx, 10, domain.FlagNewUI)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.TeamHasFeature(ctx, 10, "other-flag")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.TeamHasFeature(ctx, 11, domain.FlagNewUI)
	require.NoError(t, err)
	assert.False(t, ok)
}
