package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// NutritionService serves the food catalog and shapes nutrition lookups into
// grouped documents.
type NutritionService struct {
	foods     domain.FoodRepository
	nutrition domain.NutritionRepository
	cache     domain.ReportCache
	log       *logger.Logger
}

// NewNutritionService creates a nutrition service. cache may be nil.
func NewNutritionService(
	foods domain.FoodRepository,
	nutrition domain.NutritionRepository,
	cache domain.ReportCache,
	log *logger.Logger,
) *NutritionService {
	return &NutritionService{
		foods:     foods,
		nutrition: nutrition,
		cache:     cache,
		log:       log,
	}
}

// GetByFoodID returns the grouped nutrition document for a food item.
//
// The two absence cases are distinct: an unknown food id returns ErrNotFound,
// while a known food with no nutrition record returns (nil, nil) so callers
// can report "no data" rather than an error.
func (s *NutritionService) GetByFoodID(ctx context.Context, foodItemID uint) (*domain.NutritionReport, error) {
	if s.cache != nil {
		if report, ok := s.cache.Get(foodItemID); ok {
			return report, nil
		}
	}

	food, err := s.foods.GetByID(ctx, foodItemID)
	if err != nil {
		return nil, err
	}

	nutrition, err := s.nutrition.GetByFoodID(ctx, foodItemID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debug("no nutrition data for food item", "food_item_id", foodItemID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	report := buildReport(food, nutrition)
	if s.cache != nil {
		s.cache.Set(foodItemID, report)
	}
	return report, nil
}

// GetFood returns one catalog entry.
func (s *NutritionService) GetFood(ctx context.Context, id uint) (*domain.FoodItem, error) {
	return s.foods.GetByID(ctx, id)
}

// ListFoods lists catalog entries with an optional category filter.
func (s *NutritionService) ListFoods(ctx context.Context, category string, offset, limit int) ([]domain.FoodItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.foods.List(ctx, category, offset, limit)
}

// SearchFoods finds catalog entries by name fragment.
func (s *NutritionService) SearchFoods(ctx context.Context, query string, limit int) ([]domain.FoodSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.FoodSummary{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	items, err := s.foods.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.FoodSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, domain.FoodSummary{
			ID:               item.ID,
			Name:             item.CanonicalName,
			Category:         item.Category,
			HasNutritionData: item.Nutrition != nil,
		})
	}
	return summaries, nil
}

// CreateFood adds a catalog entry. Names are unique.
func (s *NutritionService) CreateFood(ctx context.Context, name, category, imageURL string) (*domain.FoodItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: canonical_name is required", domain.ErrValidation)
	}

	if _, err := s.foods.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: food item %q", domain.ErrDuplicate, name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	item := &domain.FoodItem{
		CanonicalName:   name,
		Category:        category,
		ExampleImageURL: imageURL,
	}
	if err := s.foods.Create(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("food item created", "id", item.ID, "name", name)
	return item, nil
}

// AddNutrition attaches a nutrition record to a food item that has none.
func (s *NutritionService) AddNutrition(ctx context.Context, foodItemID uint, data *domain.NutritionData) error {
	if _, err := s.foods.GetByID(ctx, foodItemID); err != nil {
		return err
	}

	if _, err := s.nutrition.GetByFoodID(ctx, foodItemID); err == nil {
		return fmt.Errorf("%w: nutrition data for food item %d", domain.ErrDuplicate, foodItemID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := ValidateNutrition(data); err != nil {
		return err
	}

	data.FoodItemID = foodItemID
	if err := s.nutrition.Create(ctx, data); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Delete(foodItemID)
	}
	s.log.Info("nutrition data added", "food_item_id", foodItemID, "source", data.DataSource)
	return nil
}

// UpdateNutrition applies the provided fields onto an existing record.
// Nil nutrient pointers and empty strings are left unchanged.
func (s *NutritionService) UpdateNutrition(ctx context.Context, foodItemID uint, updates *domain.NutritionData) error {
	existing, err := s.nutrition.GetByFoodID(ctx, foodItemID)
	if err != nil {
		return err
	}

	applyUpdates(existing, updates)

	if err := ValidateNutrition(existing); err != nil {
		return err
	}
	if err := s.nutrition.Update(ctx, existing); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Delete(foodItemID)
	}
	s.log.Info("nutrition data updated", "food_item_id", foodItemID)
	return nil
}

// ValidateNutrition enforces the record invariants: a recognized data source,
// a recognized spoilage level, and no negative quantities.
func ValidateNutrition(data *domain.NutritionData) error {
	if !data.DataSource.Valid() {
		return fmt.Errorf("%w: unrecognized data source %q", domain.ErrValidation, data.DataSource)
	}
	if data.SpoilageRiskLevel != "" && !data.SpoilageRiskLevel.Valid() {
		return fmt.Errorf("%w: unrecognized spoilage risk %q", domain.ErrValidation, data.SpoilageRiskLevel)
	}
	if data.ShelfLifeDays != nil && *data.ShelfLifeDays < 0 {
		return fmt.Errorf("%w: shelf_life_days below zero", domain.ErrValidation)
	}

	for name, value := range nutrientFields(data) {
		if value != nil && *value < 0 {
			return fmt.Errorf("%w: %s below zero", domain.ErrValidation, name)
		}
	}
	return nil
}

// nutrientFields enumerates every stored nutrient quantity by its canonical
// field name. The importer and the report builder share this registry so a
// field cannot be importable without also being validated and served.
func nutrientFields(d *domain.NutritionData) map[string]*float64 {
	return map[string]*float64{
		"calories_per_100g":     d.CaloriesPer100g,
		"protein_per_100g":      d.ProteinPer100g,
		"carbs_per_100g":        d.CarbsPer100g,
		"fat_per_100g":          d.FatPer100g,
		"fiber_per_100g":        d.FiberPer100g,
		"sugar_per_100g":        d.SugarPer100g,
		"vitamin_a_mcg":         d.VitaminAMcg,
		"vitamin_c_mg":          d.VitaminCMg,
		"vitamin_d_mcg":         d.VitaminDMcg,
		"vitamin_e_mg":          d.VitaminEMg,
		"vitamin_k_mcg":         d.VitaminKMcg,
		"vitamin_b1_mg":         d.VitaminB1Mg,
		"vitamin_b2_mg":         d.VitaminB2Mg,
		"vitamin_b3_mg":         d.VitaminB3Mg,
		"vitamin_b6_mg":         d.VitaminB6Mg,
		"vitamin_b12_mcg":       d.VitaminB12Mcg,
		"folate_mcg":            d.FolateMcg,
		"calcium_mg":            d.CalciumMg,
		"iron_mg":               d.IronMg,
		"magnesium_mg":          d.MagnesiumMg,
		"phosphorus_mg":         d.PhosphorusMg,
		"potassium_mg":          d.PotassiumMg,
		"sodium_mg":             d.SodiumMg,
		"zinc_mg":               d.ZincMg,
		"water_content_percent": d.WaterContentPercent,
	}
}

// buildReport shapes a raw record into the grouped document.
func buildReport(food *domain.FoodItem, n *domain.NutritionData) *domain.NutritionReport {
	return &domain.NutritionReport{
		FoodName:   food.CanonicalName,
		Category:   food.Category,
		DataSource: n.DataSource,
		Macronutrients: domain.Macronutrients{
			CaloriesPer100g: n.CaloriesPer100g,
			ProteinPer100g:  n.ProteinPer100g,
			CarbsPer100g:    n.CarbsPer100g,
			FatPer100g:      n.FatPer100g,
			FiberPer100g:    n.FiberPer100g,
			SugarPer100g:    n.SugarPer100g,
		},
		Vitamins: domain.Vitamins{
			VitaminAMcg:   n.VitaminAMcg,
			VitaminCMg:    n.VitaminCMg,
			VitaminDMcg:   n.VitaminDMcg,
			VitaminEMg:    n.VitaminEMg,
			VitaminKMcg:   n.VitaminKMcg,
			VitaminB1Mg:   n.VitaminB1Mg,
			VitaminB2Mg:   n.VitaminB2Mg,
			VitaminB3Mg:   n.VitaminB3Mg,
			VitaminB6Mg:   n.VitaminB6Mg,
			VitaminB12Mcg: n.VitaminB12Mcg,
			FolateMcg:     n.FolateMcg,
		},
		Minerals: domain.Minerals{
			CalciumMg:    n.CalciumMg,
			IronMg:       n.IronMg,
			MagnesiumMg:  n.MagnesiumMg,
			PhosphorusMg: n.PhosphorusMg,
			PotassiumMg:  n.PotassiumMg,
			SodiumMg:     n.SodiumMg,
			ZincMg:       n.ZincMg,
		},
		Properties: domain.Properties{
			WaterContentPercent: n.WaterContentPercent,
			SpoilageRiskLevel:   n.SpoilageRiskLevel,
			RecommendedStorage:  n.RecommendedStorage,
			ShelfLifeDays:       n.ShelfLifeDays,
		},
	}
}

// applyUpdates copies set fields from src onto dst. Nutrient pointers are
// taken when non-nil; strings when non-empty.
func applyUpdates(dst, src *domain.NutritionData) {
	if src.DataSource != "" {
		dst.DataSource = src.DataSource
	}
	if src.SourceID != "" {
		dst.SourceID = src.SourceID
	}
	if src.SpoilageRiskLevel != "" {
		dst.SpoilageRiskLevel = src.SpoilageRiskLevel
	}
	if src.RecommendedStorage != "" {
		dst.RecommendedStorage = src.RecommendedStorage
	}
	if src.ShelfLifeDays != nil {
		dst.ShelfLifeDays = src.ShelfLifeDays
	}

	dstFields := nutrientPointers(dst)
	for name, value := range nutrientFields(src) {
		if value != nil {
			*dstFields[name] = value
		}
	}
}

// nutrientPointers mirrors nutrientFields but yields addressable slots.
func nutrientPointers(d *domain.NutritionData) map[string]**float64 {
	return map[string]**float64{
		"calories_per_100g":     &d.CaloriesPer100g,
		"protein_per_100g":      &d.ProteinPer100g,
		"carbs_per_100g":        &d.CarbsPer100g,
		"fat_per_100g":          &d.FatPer100g,
		"fiber_per_100g":        &d.FiberPer100g,
		"sugar_per_100g":        &d.SugarPer100g,
		"vitamin_a_mcg":         &d.VitaminAMcg,
		"vitamin_c_mg":          &d.VitaminCMg,
		"vitamin_d_mcg":         &d.VitaminDMcg,
		"vitamin_e_mg":          &d.VitaminEMg,
		"vitamin_k_mcg":         &d.VitaminKMcg,
		"vitamin_b1_mg":         &d.VitaminB1Mg,
		"vitamin_b2_mg":         &d.VitaminB2Mg,
		"vitamin_b3_mg":         &d.VitaminB3Mg,
		"vitamin_b6_mg":         &d.VitaminB6Mg,
		"vitamin_b12_mcg":       &d.VitaminB12Mcg,
		"folate_mcg":            &d.FolateMcg,
		"calcium_mg":            &d.CalciumMg,
		"iron_mg":               &d.IronMg,
		"magnesium_mg":          &d.MagnesiumMg,
		"phosphorus_mg":         &d.PhosphorusMg,
		"potassium_mg":          &d.PotassiumMg,
		"sodium_mg":             &d.SodiumMg,
		"zinc_mg":               &d.ZincMg,
		"water_content_percent": &d.WaterContentPercent,
	}
}
