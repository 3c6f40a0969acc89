package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seatgrid/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUnresolvable means a seat has no active override, no manual price
	// and no tier. It is a configuration error, never a free seat.
	ErrUnresolvable = errors.New("seat price is unresolvable")

	ErrRuleNotFound    = errors.New("pricing rule not found")
	ErrInvalidScope    = errors.New("invalid rule scope")
	ErrInvalidOverride = errors.New("override must target exactly one of seat, row or section")
	ErrEmptyWindow     = errors.New("override window is empty")
)

type Service interface {
	// Resolve returns the single price a buyer should be quoted for the
	// seat described by q, in minor units.
	Resolve(ctx context.Context, q ResolveQuery) (int64, error)

	// ResolveMany resolves a whole snapshot's seats against one override
	// scan. Unresolvable seats are absent from the result map.
	ResolveMany(ctx context.Context, eventSeatingID uuid.UUID, queries []ResolveQuery, at time.Time) (map[string]int64, error)

	CreateRule(tenantID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error)
	GetRule(tenantID, id uuid.UUID) (*RuleResponse, error)
	ListRules(tenantID, eventSeatingID uuid.UUID) ([]RuleResponse, error)
	SetRuleActive(tenantID, id uuid.UUID, active bool) (*RuleResponse, error)

	// EvaluateRules runs every active rule for a snapshot at the given
	// instant, closing each rule's previous overrides and inserting the
	// fresh ones. Returns the number of overrides written.
	EvaluateRules(ctx context.Context, tenantID, eventSeatingID uuid.UUID, at time.Time) (int, error)

	CreateManualOverride(tenantID uuid.UUID, req CreateOverrideRequest) (*OverrideResponse, error)
	ListOverrides(eventSeatingID uuid.UUID) ([]OverrideResponse, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, logger: log}
}

func (s *service) Resolve(ctx context.Context, q ResolveQuery) (int64, error) {
	overrides, err := s.repo.GetActiveOverrides(q.EventSeatingID, q.SeatUID, q.SectionRef, q.RowRef, q.At)
	if err != nil {
		return 0, fmt.Errorf("failed to load price overrides: %w", err)
	}

	price, ok := resolveFromOverrides(overrides, q)
	if !ok {
		s.logger.LogUnresolvablePrice(ctx, q.EventSeatingID.String(), q.SeatUID)
		return 0, ErrUnresolvable
	}

	return price, nil
}

func (s *service) ResolveMany(ctx context.Context, eventSeatingID uuid.UUID, queries []ResolveQuery, at time.Time) (map[string]int64, error) {
	overrides, err := s.repo.GetActiveOverridesBySnapshot(eventSeatingID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load price overrides: %w", err)
	}

	prices := make(map[string]int64, len(queries))
	for _, q := range queries {
		price, ok := resolveFromOverrides(overrides, q)
		if !ok {
			s.logger.LogUnresolvablePrice(ctx, eventSeatingID.String(), q.SeatUID)
			continue
		}
		prices[q.SeatUID] = price
	}

	return prices, nil
}

func (s *service) CreateRule(tenantID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error) {
	scope := RuleScope(req.Scope)
	switch scope {
	case ScopeEvent:
		// event-wide rules carry no scope ref
	case ScopeSection, ScopeRow:
		if strings.TrimSpace(req.ScopeRef) == "" {
			return nil, fmt.Errorf("%w: %s rules require a scope_ref", ErrInvalidScope, scope)
		}
	default:
		return nil, ErrInvalidScope
	}

	if !IsKnownStrategy(req.Strategy) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, req.Strategy)
	}

	eventSeatingID, err := uuid.Parse(req.EventSeatingID)
	if err != nil {
		return nil, fmt.Errorf("invalid event seating ID: %w", err)
	}

	// Dry-run the evaluator so malformed params fail at authoring time, not
	// at the next evaluation.
	if _, err := evaluateStrategy(req.Strategy, req.Params, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("invalid rule params: %w", err)
	}

	rule := &PricingRule{
		TenantID:       tenantID,
		EventSeatingID: eventSeatingID,
		Scope:          scope,
		ScopeRef:       strings.ToUpper(strings.TrimSpace(req.ScopeRef)),
		Strategy:       req.Strategy,
		Params:         req.Params,
		Active:         true,
	}

	if err := s.repo.CreateRule(rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	response := ruleToResponse(rule)
	return &response, nil
}

func (s *service) GetRule(tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.repo.GetRuleByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	response := ruleToResponse(rule)
	return &response, nil
}

func (s *service) ListRules(tenantID, eventSeatingID uuid.UUID) ([]RuleResponse, error) {
	rules, err := s.repo.GetRulesBySnapshot(tenantID, eventSeatingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	responses := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		responses = append(responses, ruleToResponse(&rules[i]))
	}
	return responses, nil
}

func (s *service) SetRuleActive(tenantID, id uuid.UUID, active bool) (*RuleResponse, error) {
	rule, err := s.repo.UpdateRule(tenantID, id, map[string]interface{}{"active": active})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	response := ruleToResponse(rule)
	return &response, nil
}

func (s *service) EvaluateRules(ctx context.Context, tenantID, eventSeatingID uuid.UUID, at time.Time) (int, error) {
	rules, err := s.repo.GetActiveRulesBySnapshot(tenantID, eventSeatingID)
	if err != nil {
		return 0, fmt.Errorf("failed to load active rules: %w", err)
	}

	written := 0
	for i := range rules {
		rule := &rules[i]

		count, err := s.evaluateRule(rule, at)
		if err != nil {
			// One bad rule must not starve the rest of the snapshot.
			s.logger.ErrorWithContext(ctx, "pricing rule evaluation failed", err, map[string]interface{}{
				"rule_id":          rule.ID.String(),
				"event_seating_id": eventSeatingID.String(),
			})
			continue
		}
		written += count
	}

	return written, nil
}

func (s *service) evaluateRule(rule *PricingRule, at time.Time) (int, error) {
	draft, err := evaluateStrategy(rule.Strategy, rule.Params, at)
	if err != nil {
		return 0, err
	}
	if draft == nil {
		// Outside its window: close anything the rule left open.
		return 0, s.repo.SupersedeRuleOverrides(rule.ID, at, nil)
	}

	replacements, err := s.expandDraft(rule, draft)
	if err != nil {
		return 0, err
	}

	if err := s.repo.SupersedeRuleOverrides(rule.ID, at, replacements); err != nil {
		return 0, fmt.Errorf("failed to supersede overrides: %w", err)
	}

	return len(replacements), nil
}

// expandDraft turns one strategy draft into concrete overrides at the rule's
// scope. Event-wide rules fan out to one override per section, since the
// resolution ladder only knows seat, row and section scopes.
func (s *service) expandDraft(rule *PricingRule, draft *overrideDraft) ([]*PriceOverride, error) {
	base := PriceOverride{
		EventSeatingID: rule.EventSeatingID,
		PriceCents:     draft.PriceCents,
		SourceRuleID:   &rule.ID,
		EffectiveFrom:  draft.EffectiveFrom,
		EffectiveTo:    draft.EffectiveTo,
	}

	switch rule.Scope {
	case ScopeSection:
		override := base
		sectionRef := rule.ScopeRef
		override.SectionRef = &sectionRef
		return []*PriceOverride{&override}, nil

	case ScopeRow:
		override := base
		rowRef := rule.ScopeRef
		override.RowRef = &rowRef
		return []*PriceOverride{&override}, nil

	case ScopeEvent:
		sections, err := s.repo.DistinctSectionRefs(rule.EventSeatingID)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshot sections: %w", err)
		}

		overrides := make([]*PriceOverride, 0, len(sections))
		for _, section := range sections {
			override := base
			sectionRef := strings.ToUpper(section)
			override.SectionRef = &sectionRef
			overrides = append(overrides, &override)
		}
		return overrides, nil

	default:
		return nil, ErrInvalidScope
	}
}

func (s *service) CreateManualOverride(tenantID uuid.UUID, req CreateOverrideRequest) (*OverrideResponse, error) {
	eventSeatingID, err := uuid.Parse(req.EventSeatingID)
	if err != nil {
		return nil, fmt.Errorf("invalid event seating ID: %w", err)
	}

	targets := 0
	override := &PriceOverride{
		EventSeatingID: eventSeatingID,
		PriceCents:     req.PriceCents,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
	}

	if req.SeatUID != nil && *req.SeatUID != "" {
		seatUID := strings.ToUpper(*req.SeatUID)
		override.SeatUID = &seatUID
		targets++
	}
	if req.RowRef != nil && *req.RowRef != "" {
		rowRef := strings.ToUpper(*req.RowRef)
		override.RowRef = &rowRef
		targets++
	}
	if req.SectionRef != nil && *req.SectionRef != "" {
		sectionRef := strings.ToUpper(*req.SectionRef)
		override.SectionRef = &sectionRef
		targets++
	}

	if targets != 1 {
		return nil, ErrInvalidOverride
	}

	if override.EffectiveTo != nil && !override.EffectiveTo.After(override.EffectiveFrom) {
		return nil, ErrEmptyWindow
	}

	if err := s.repo.CreateOverride(override); err != nil {
		return nil, fmt.Errorf("failed to create override: %w", err)
	}

	response := overrideToResponse(override)
	return &response, nil
}

func (s *service) ListOverrides(eventSeatingID uuid.UUID) ([]OverrideResponse, error) {
	overrides, err := s.repo.GetOverridesBySnapshot(eventSeatingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}

	responses := make([]OverrideResponse, 0, len(overrides))
	for i := range overrides {
		responses = append(responses, overrideToResponse(&overrides[i]))
	}
	return responses, nil
}
