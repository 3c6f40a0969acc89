package tiers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"seatgrid/internal/shared/constants"
	"seatgrid/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	CreateTier(tenantID uuid.UUID, req CreateTierRequest) (*TierResponse, error)
	GetTierByID(tenantID, id uuid.UUID) (*TierResponse, error)
	UpdateTier(tenantID, id uuid.UUID, req UpdateTierRequest) (*TierResponse, error)
	GetAllTiers(tenantID uuid.UUID, query TierListQuery) (*PaginatedTiers, error)
	GetActiveTiers(ctx context.Context, tenantID uuid.UUID) ([]TierResponse, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateTier(tenantID uuid.UUID, req CreateTierRequest) (*TierResponse, error) {
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, errors.New("tier code cannot be empty")
	}

	existing, err := s.repo.GetByCode(tenantID, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing tier: %w", err)
	}
	if existing != nil {
		return nil, errors.New("a tier with this code already exists")
	}

	tier := &PriceTier{
		TenantID:   tenantID,
		Name:       strings.TrimSpace(req.Name),
		Code:       code,
		Currency:   strings.ToUpper(req.Currency),
		PriceMinor: req.PriceMinor,
		SortOrder:  req.SortOrder,
		IsActive:   true,
	}

	if err := s.repo.Create(tier); err != nil {
		return nil, fmt.Errorf("failed to create tier: %w", err)
	}

	s.invalidateCache(tenantID)

	response := tier.ToResponse()
	return &response, nil
}

func (s *service) GetTierByID(tenantID, id uuid.UUID) (*TierResponse, error) {
	tier, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tier not found")
		}
		return nil, fmt.Errorf("failed to get tier: %w", err)
	}

	response := tier.ToResponse()
	return &response, nil
}

func (s *service) UpdateTier(tenantID, id uuid.UUID, req UpdateTierRequest) (*TierResponse, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.PriceMinor != nil {
		updates["price_minor"] = *req.PriceMinor
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	tier, err := s.repo.Update(tenantID, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tier not found")
		}
		return nil, fmt.Errorf("failed to update tier: %w", err)
	}

	s.invalidateCache(tenantID)

	response := tier.ToResponse()
	return &response, nil
}

func (s *service) GetAllTiers(tenantID uuid.UUID, query TierListQuery) (*PaginatedTiers, error) {
	tiers, totalCount, err := s.repo.GetAll(tenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	responses := make([]TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		responses = append(responses, tier.ToResponse())
	}

	return &PaginatedTiers{
		Tiers:      responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) GetActiveTiers(ctx context.Context, tenantID uuid.UUID) ([]TierResponse, error) {
	cacheKey := constants.CACHE_KEY_PRICE_TIERS + tenantID.String()

	var cached []TierResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	tiers, err := s.repo.GetActive(tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active tiers: %w", err)
	}

	responses := make([]TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		responses = append(responses, tier.ToResponse())
	}

	_ = s.cache.Set(ctx, cacheKey, responses, constants.TTL_PRICE_TIERS)

	return responses, nil
}

func (s *service) invalidateCache(tenantID uuid.UUID) {
	_ = s.cache.Delete(context.Background(), constants.CACHE_KEY_PRICE_TIERS+tenantID.String())
}
