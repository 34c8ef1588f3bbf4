package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fund-projection/domain"
	"fund-projection/repository"
)

type MockProjectionRepository struct {
	SaveCalls  int
	ForceError bool
}

func (m *MockProjectionRepository) Save(entry domain.HistoryEntry) error {
	m.SaveCalls++
	if m.ForceError {
		return errors.New("save error")
	}
	return nil
}

func (m *MockProjectionRepository) Recent(limit int) []domain.HistoryEntry { return nil }

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, bool) { return "", false }
func (failingCache) Set(context.Context, string, string) error  { return errors.New("cache down") }

func newTestService(t *testing.T, repo repository.ProjectionRepository, cache repository.CacheRepository) (*ProjectionService, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewProjectionService(repo, cache, logger, 0), hook
}

func TestCalculateProjection_CachesResult(t *testing.T) {
	repo := &MockProjectionRepository{}
	cache := repository.NewMemoryCache()
	svc, _ := newTestService(t, repo, cache)

	p := params(10, 100, 7, domain.VarianceHigh)
	first, err := svc.CalculateProjection(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, repo.SaveCalls)

	second, err := svc.CalculateProjection(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.SaveCalls, "cache hits are not recorded twice")

	direct, err := Project(p)
	require.NoError(t, err)
	assert.Equal(t, direct, second)
}

func TestCalculateProjection_IgnoresCorruptCacheEntry(t *testing.T) {
	cache := repository.NewMemoryCache()
	p := params(1, 100, 0, domain.VarianceLow)
	require.NoError(t, cache.Set(context.Background(), cacheKey(p), "{not json"))

	svc, hook := newTestService(t, &MockProjectionRepository{}, cache)
	result, err := svc.CalculateProjection(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, result.Records, 12)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCalculateProjection_SideEffectFailuresAreNotFatal(t *testing.T) {
	repo := &MockProjectionRepository{ForceError: true}
	svc, hook := newTestService(t, repo, failingCache{})

	result, err := svc.CalculateProjection(context.Background(), params(2, 50, 3, domain.VarianceMedium))
	require.NoError(t, err)
	assert.Len(t, result.Records, 24)

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestCalculateProjection_Validation(t *testing.T) {
	repo := &MockProjectionRepository{}
	svc, _ := newTestService(t, repo, repository.NewMemoryCache())

	tests := []struct {
		name   string
		params domain.SimulationParameters
	}{
		{"zero years", params(0, 100, 5, domain.VarianceLow)},
		{"too many years", params(MaxInvestmentYears+1, 100, 5, domain.VarianceLow)},
		{"unknown tier", params(5, 100, 5, "Extreme")},
		{"negative deposit", params(5, -1, 5, domain.VarianceLow)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.CalculateProjection(context.Background(), tc.params)
			assert.ErrorIs(t, err, ErrInvalidParameters)
			assert.Empty(t, result.Records)
		})
	}
	assert.Zero(t, repo.SaveCalls, "invalid requests are never recorded")
}

func TestCalculateProjection_RecordsHistory(t *testing.T) {
	repo := repository.NewProjectionRepositoryMemory(10)
	svc, _ := newTestService(t, repo, repository.NewMemoryCache())

	_, err := svc.CalculateProjection(context.Background(), params(1, 100, 0, domain.VarianceLow))
	require.NoError(t, err)
	_, err = svc.CalculateProjection(context.Background(), params(1, 200, 0, domain.VarianceLow))
	require.NoError(t, err)

	history := svc.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, 200.0, history[0].Parameters.MonthlyDeposit)
	assert.Equal(t, 2400.0, history[0].FinalFundValue)
	assert.Equal(t, 1200.0, history[1].FinalFundValue)
	assert.False(t, history[0].CalculatedAt.IsZero())
}

func TestCacheKey_Normalizes(t *testing.T) {
	assert.Equal(t, "projection:10:100:7:High", cacheKey(params(10, 100.0, 7, domain.VarianceHigh)))
	assert.NotEqual(t,
		cacheKey(params(10, 100, 7, domain.VarianceHigh)),
		cacheKey(params(10, 100, 7, domain.VarianceLow)))
}
