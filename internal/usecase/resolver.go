package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// Package-level compiled regex patterns for label normalization
var (
	labelPunctuationRegex = regexp.MustCompile(`[^\w\s]`)
	labelSpacesRegex      = regexp.MustCompile(`\s+`)
)

// Resolver maps a free-text predictor label to a catalog FoodItem by
// case-insensitive substring match. This is a documented best-effort
// heuristic, first match by id ascending, not a scoring system.
type Resolver struct {
	foods domain.FoodRepository
	log   *logger.Logger
}

func NewResolver(foods domain.FoodRepository, log *logger.Logger) *Resolver {
	return &Resolver{foods: foods, log: log}
}

// Resolve returns the matching food item, or (nil, nil) when nothing
// matches. An empty or punctuation-only label never matches: the wildcard
// pattern it would produce matches every row.
func (r *Resolver) Resolve(ctx context.Context, label string) (*domain.FoodItem, error) {
	normalized := normalizeLabel(label)
	if normalized == "" {
		return nil, nil
	}

	item, err := r.foods.MatchByLabel(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Debug("no catalog match for label", "label", label)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.log.Debug("label resolved", "label", label, "food_item_id", item.ID, "name", item.CanonicalName)
	return item, nil
}

// normalizeLabel lowercases, strips punctuation and collapses whitespace.
func normalizeLabel(label string) string {
	cleaned := labelPunctuationRegex.ReplaceAllString(strings.ToLower(label), " ")
	cleaned = labelSpacesRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
