package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
	"fund-projection/repository"
)

type ProjectionService struct {
	repo     repository.ProjectionRepository
	cache    repository.CacheRepository
	log      logrus.FieldLogger
	maxYears int
	now      func() time.Time
}

// NewProjectionService creates a ProjectionService. maxYears <= 0 selects
// MaxInvestmentYears.
func NewProjectionService(
	repo repository.ProjectionRepository,
	cache repository.CacheRepository,
	log logrus.FieldLogger,
	maxYears int,
) *ProjectionService {
	if maxYears <= 0 {
		maxYears = MaxInvestmentYears
	}
	return &ProjectionService{
		repo:     repo,
		cache:    cache,
		log:      log,
		maxYears: maxYears,
		now:      time.Now,
	}
}

// CheckLimits applies the service-level bounds that sit on top of the
// engine's own validation.
func (s *ProjectionService) CheckLimits(params domain.SimulationParameters) error {
	if params.InvestmentPeriodYears > s.maxYears {
		return invalidParameters("investment period exceeds the maximum of %d years", s.maxYears)
	}
	if !params.VarianceTier.Valid() {
		return invalidParameters("variance tier must be one of Low, Medium or High, got %q", params.VarianceTier)
	}
	return nil
}

// CalculateProjection runs the engine, serving repeated parameter sets from
// the cache.
func (s *ProjectionService) CalculateProjection(
	ctx context.Context,
	params domain.SimulationParameters,
) (domain.SimulationResult, error) {

	if err := ValidateParameters(params); err != nil {
		return domain.SimulationResult{}, err
	}
	if err := s.CheckLimits(params); err != nil {
		return domain.SimulationResult{}, err
	}

	key := cacheKey(params)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.SimulationResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			s.log.WithField("key", key).Debug("projection cache hit")
			return result, nil
		}
		s.log.WithField("key", key).Warn("discarding undecodable cache entry")
	}

	result, err := Project(params)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	// Cache and history failures are not fatal.
	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(payload)); err != nil {
			s.log.WithError(err).Warn("failed to cache projection")
		}
	}

	final, _ := result.Final()
	entry := domain.HistoryEntry{
		Parameters:              params,
		FinalFundValue:          final.FundValue,
		TotalInterestEarned:     result.TotalInterestEarned,
		AverageAnnualGrowthRate: result.AverageAnnualGrowthRate,
		CalculatedAt:            s.now().UTC(),
	}
	if err := s.repo.Save(entry); err != nil {
		s.log.WithError(err).Warn("failed to save projection history")
	}

	return result, nil
}

// History returns the most recent calculations, newest first.
func (s *ProjectionService) History(limit int) []domain.HistoryEntry {
	return s.repo.Recent(limit)
}

// cacheKey normalizes parameters into a stable key. Floats use the shortest
// round-trip representation so 100 and 100.0 share an entry.
func cacheKey(params domain.SimulationParameters) string {
	return fmt.Sprintf("%s%d:%s:%s:%s",
		cacheKeyPrefix,
		params.InvestmentPeriodYears,
		strconv.FormatFloat(params.MonthlyDeposit, 'g', -1, 64),
		strconv.FormatFloat(params.AnnualInterestRatePercent, 'g', -1, 64),
		params.VarianceTier,
	)
}
