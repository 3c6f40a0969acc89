package pricing

import (
	"errors"
	"fmt"
	"time"
)

// Strategy kinds. Each maps to an evaluation function producing an override
// draft; unknown kinds are rejected at rule creation.
const (
	StrategyScheduled       = "scheduled"
	StrategyPercentDiscount = "percent_discount"
	StrategyEarlyBird       = "early_bird"
)

var ErrUnknownStrategy = errors.New("unknown pricing strategy")

// overrideDraft is what a strategy evaluation yields before scope expansion:
// a price and the window it applies in.
type overrideDraft struct {
	PriceCents    int64
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

type evaluateFunc func(params RuleParams, at time.Time) (*overrideDraft, error)

var strategyEvaluators = map[string]evaluateFunc{
	StrategyScheduled:       evaluateScheduled,
	StrategyPercentDiscount: evaluatePercentDiscount,
	StrategyEarlyBird:       evaluateEarlyBird,
}

// IsKnownStrategy reports whether the strategy kind has an evaluator.
func IsKnownStrategy(strategy string) bool {
	_, ok := strategyEvaluators[strategy]
	return ok
}

// evaluateStrategy runs the evaluator for the rule's strategy kind. A nil
// draft with nil error means the rule produces nothing at this instant
// (outside its window).
func evaluateStrategy(strategy string, params RuleParams, at time.Time) (*overrideDraft, error) {
	evaluate, ok := strategyEvaluators[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
	return evaluate(params, at)
}

// scheduled: a fixed price inside an explicit window.
// params: price_minor (required), starts_at, ends_at (RFC3339, optional).
func evaluateScheduled(params RuleParams, at time.Time) (*overrideDraft, error) {
	price, err := paramInt64(params, "price_minor")
	if err != nil {
		return nil, err
	}

	from := at
	if startsAt, ok, err := paramTime(params, "starts_at"); err != nil {
		return nil, err
	} else if ok {
		from = startsAt
	}

	draft := &overrideDraft{PriceCents: price, EffectiveFrom: from}

	if endsAt, ok, err := paramTime(params, "ends_at"); err != nil {
		return nil, err
	} else if ok {
		if !endsAt.After(from) {
			return nil, errors.New("scheduled rule window is empty")
		}
		draft.EffectiveTo = &endsAt
	}

	return draft, nil
}

// percent_discount: a percentage off a base price.
// params: percent (1-99, required), base_price_minor (required),
// starts_at, ends_at (optional).
func evaluatePercentDiscount(params RuleParams, at time.Time) (*overrideDraft, error) {
	percent, err := paramInt64(params, "percent")
	if err != nil {
		return nil, err
	}
	if percent < 1 || percent > 99 {
		return nil, errors.New("percent must be between 1 and 99")
	}

	base, err := paramInt64(params, "base_price_minor")
	if err != nil {
		return nil, err
	}

	draft := &overrideDraft{
		PriceCents:    base * (100 - percent) / 100,
		EffectiveFrom: at,
	}

	if startsAt, ok, err := paramTime(params, "starts_at"); err != nil {
		return nil, err
	} else if ok {
		draft.EffectiveFrom = startsAt
	}

	if endsAt, ok, err := paramTime(params, "ends_at"); err != nil {
		return nil, err
	} else if ok {
		draft.EffectiveTo = &endsAt
	}

	return draft, nil
}

// early_bird: a fixed discounted price until a cutoff. Once the cutoff has
// passed the rule produces nothing.
// params: price_minor (required), until (RFC3339, required).
func evaluateEarlyBird(params RuleParams, at time.Time) (*overrideDraft, error) {
	price, err := paramInt64(params, "price_minor")
	if err != nil {
		return nil, err
	}

	until, ok, err := paramTime(params, "until")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("early_bird rule requires an until cutoff")
	}

	if !until.After(at) {
		return nil, nil
	}

	return &overrideDraft{
		PriceCents:    price,
		EffectiveFrom: at,
		EffectiveTo:   &until,
	}, nil
}

func paramInt64(params RuleParams, key string) (int64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("rule params missing %s", key)
	}

	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("rule param %s must be a number", key)
	}
}

func paramTime(params RuleParams, key string) (time.Time, bool, error) {
	raw, ok := params[key]
	if !ok {
		return time.Time{}, false, nil
	}

	str, ok := raw.(string)
	if !ok {
		return time.Time{}, false, fmt.Errorf("rule param %s must be an RFC3339 timestamp", key)
	}

	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("rule param %s is not a valid RFC3339 timestamp: %w", key, err)
	}

	return parsed, true, nil
}
