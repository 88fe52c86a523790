package service

import (
	"context"
	"errors"
	"strings"

	"github.com/andresuchdata/marginsight/backend-go/internal/cache"
	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/refresh"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrNoComputedPass means nothing has been computed or persisted yet.
var ErrNoComputedPass = errors.New("no computed pass available")

// AnalyticsService serves derived collections to the API. Reads come
// from the refresher's in-memory pass, falling back to the persisted
// latest pass after a cold start.
type AnalyticsService struct {
	refresher *refresh.Refresher
	repo      repository.DerivedRepository
	cache     cache.DashboardSummaryCache
}

func NewAnalyticsService(refresher *refresh.Refresher, repo repository.DerivedRepository, cacheImpl cache.DashboardSummaryCache) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AnalyticsService{refresher: refresher, repo: repo, cache: cacheImpl}
}

func (s *AnalyticsService) latest(ctx context.Context) (engine.Derived, error) {
	if derived, ok := s.refresher.Latest(); ok {
		return derived, nil
	}
	if s.repo != nil {
		derived, ok, err := s.repo.LoadLatest(ctx)
		if err != nil {
			return engine.Derived{}, err
		}
		if ok {
			return derived, nil
		}
	}
	return engine.Derived{}, ErrNoComputedPass
}

// Refresh triggers a full fetch-recompute pass and returns its output.
// Summaries for older fingerprints are evicted rather than waiting for
// their TTL.
func (s *AnalyticsService) Refresh(ctx context.Context) (engine.Derived, error) {
	derived, err := s.refresher.Refresh(ctx)
	if err != nil {
		return engine.Derived{}, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidation failed")
	}
	return derived, nil
}

func (s *AnalyticsService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	fingerprint := derived.Fingerprint()

	if summary, ok, err := s.cache.GetSummary(ctx, fingerprint); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get summary failed")
	}

	summary := derived.Summary
	if err := s.cache.SetSummary(ctx, fingerprint, &summary); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set summary failed")
	}
	return &summary, nil
}

// GetReconciledSales returns the reconciliation report, optionally
// filtered to one status.
func (s *AnalyticsService) GetReconciledSales(ctx context.Context, status string) ([]domain.ReconciledSale, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return derived.ReconciledSales, nil
	}

	out := make([]domain.ReconciledSale, 0)
	for _, r := range derived.ReconciledSales {
		if strings.EqualFold(string(r.Status), status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *AnalyticsService) GetInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return derived.Inventory, nil
}

func (s *AnalyticsService) GetBackorders(ctx context.Context) ([]domain.BackorderRecommendation, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return derived.Backorders, nil
}

// GetCustomers returns customer segments, optionally filtered by tier
// and/or quadrant.
func (s *AnalyticsService) GetCustomers(ctx context.Context, tier, quadrant string) ([]domain.Customer, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	if tier == "" && quadrant == "" {
		return derived.Customers, nil
	}

	out := make([]domain.Customer, 0)
	for _, c := range derived.Customers {
		if tier != "" && !strings.EqualFold(string(c.Tier), tier) {
			continue
		}
		if quadrant != "" && !strings.EqualFold(string(c.Quadrant), quadrant) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *AnalyticsService) GetOpportunities(ctx context.Context) ([]domain.CustomerSalesOpportunity, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return derived.Opportunities, nil
}

func (s *AnalyticsService) GetPromotions(ctx context.Context) ([]domain.PromotionCandidate, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return derived.Promotions, nil
}

func (s *AnalyticsService) GetShipmentGroups(ctx context.Context) ([]domain.AugmentedShipmentGroup, error) {
	derived, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return derived.ShipmentGroups, nil
}
