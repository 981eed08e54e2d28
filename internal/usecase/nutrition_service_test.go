package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

func newNutritionFixture(t *testing.T) (*NutritionService, *memFoods, *memNutrition) {
	t.Helper()
	foods := newMemFoods()
	nutrition := newMemNutrition()
	svc := NewNutritionService(foods, nutrition, nil, logger.NewNop())
	return svc, foods, nutrition
}

func TestNutritionService_GetByFoodID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grouped document", func(t *testing.T) {
		svc, foods, nutrition := newNutritionFixture(t)

		food := &domain.FoodItem{CanonicalName: "Tomato", Category: "Vegetables"}
		if err := foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}
		shelf := 5
		err := nutrition.Create(ctx, &domain.NutritionData{
			FoodItemID:          food.ID,
			DataSource:          domain.SourceUSDA,
			CaloriesPer100g:     floatPtr(18),
			ProteinPer100g:      floatPtr(0.9),
			VitaminCMg:          floatPtr(13.7),
			VitaminB1Mg:         floatPtr(0.037),
			PotassiumMg:         floatPtr(237),
			WaterContentPercent: floatPtr(94.5),
			SpoilageRiskLevel:   domain.SpoilageHigh,
			RecommendedStorage:  "refrigerate",
			ShelfLifeDays:       &shelf,
		})
		if err != nil {
			t.Fatal(err)
		}

		report, err := svc.GetByFoodID(ctx, food.ID)
		if err != nil {
			t.Fatalf("GetByFoodID() error = %v", err)
		}
		if report == nil {
			t.Fatal("GetByFoodID() report = nil")
		}
		if report.FoodName != "Tomato" || report.Category != "Vegetables" {
			t.Errorf("header = %q/%q, want Tomato/Vegetables", report.FoodName, report.Category)
		}
		if report.DataSource != domain.SourceUSDA {
			t.Errorf("DataSource = %q, want USDA", report.DataSource)
		}
		if report.Macronutrients.CaloriesPer100g == nil || *report.Macronutrients.CaloriesPer100g != 18 {
			t.Error("macronutrients missing calories")
		}
		if report.Vitamins.VitaminB1Mg == nil || *report.Vitamins.VitaminB1Mg != 0.037 {
			t.Error("vitamins missing thiamine")
		}
		if report.Minerals.PotassiumMg == nil || *report.Minerals.PotassiumMg != 237 {
			t.Error("minerals missing potassium")
		}
		if report.Properties.SpoilageRiskLevel != domain.SpoilageHigh {
			t.Errorf("spoilage = %q, want high", report.Properties.SpoilageRiskLevel)
		}
		// Unreported values stay absent rather than zero.
		if report.Macronutrients.FatPer100g != nil {
			t.Error("fat should be absent, not zero")
		}
	})

	t.Run("unknown food returns ErrNotFound", func(t *testing.T) {
		svc, _, _ := newNutritionFixture(t)
		if _, err := svc.GetByFoodID(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("known food without data returns nil, nil", func(t *testing.T) {
		svc, foods, _ := newNutritionFixture(t)
		food := &domain.FoodItem{CanonicalName: "Starfruit"}
		if err := foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}

		report, err := svc.GetByFoodID(ctx, food.ID)
		if err != nil {
			t.Fatalf("error = %v, want nil", err)
		}
		if report != nil {
			t.Errorf("report = %+v, want nil", report)
		}
	})
}

func TestNutritionService_CreateFood(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty name", func(t *testing.T) {
		svc, _, _ := newNutritionFixture(t)
		if _, err := svc.CreateFood(ctx, "   ", "", ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		svc, _, _ := newNutritionFixture(t)
		if _, err := svc.CreateFood(ctx, "Tomato", "Vegetables", ""); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.CreateFood(ctx, "Tomato", "Vegetables", ""); !errors.Is(err, domain.ErrDuplicate) {
			t.Errorf("error = %v, want ErrDuplicate", err)
		}
	})
}

func TestNutritionService_AddNutrition(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects negative nutrient", func(t *testing.T) {
		svc, foods, _ := newNutritionFixture(t)
		food := &domain.FoodItem{CanonicalName: "Tomato"}
		if err := foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}

		err := svc.AddNutrition(ctx, food.ID, &domain.NutritionData{
			DataSource:      domain.SourceManual,
			CaloriesPer100g: floatPtr(-5),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects unknown data source", func(t *testing.T) {
		svc, foods, _ := newNutritionFixture(t)
		food := &domain.FoodItem{CanonicalName: "Tomato"}
		if err := foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}

		err := svc.AddNutrition(ctx, food.ID, &domain.NutritionData{DataSource: "WIKI"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects second record for same food", func(t *testing.T) {
		svc, foods, _ := newNutritionFixture(t)
		food := &domain.FoodItem{CanonicalName: "Tomato"}
		if err := foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}

		if err := svc.AddNutrition(ctx, food.ID, &domain.NutritionData{DataSource: domain.SourceManual}); err != nil {
			t.Fatal(err)
		}
		err := svc.AddNutrition(ctx, food.ID, &domain.NutritionData{DataSource: domain.SourceManual})
		if !errors.Is(err, domain.ErrDuplicate) {
			t.Errorf("error = %v, want ErrDuplicate", err)
		}
	})
}

func TestNutritionService_UpdateNutrition(t *testing.T) {
	ctx := context.Background()
	svc, foods, nutrition := newNutritionFixture(t)

	food := &domain.FoodItem{CanonicalName: "Tomato"}
	if err := foods.Create(ctx, food); err != nil {
		t.Fatal(err)
	}
	if err := nutrition.Create(ctx, &domain.NutritionData{
		FoodItemID:      food.ID,
		DataSource:      domain.SourceUSDA,
		CaloriesPer100g: floatPtr(18),
		ProteinPer100g:  floatPtr(0.9),
	}); err != nil {
		t.Fatal(err)
	}

	err := svc.UpdateNutrition(ctx, food.ID, &domain.NutritionData{
		DataSource:      domain.SourceManual,
		CaloriesPer100g: floatPtr(20),
	})
	if err != nil {
		t.Fatalf("UpdateNutrition() error = %v", err)
	}

	got, err := nutrition.GetByFoodID(ctx, food.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.CaloriesPer100g != 20 {
		t.Errorf("calories = %v, want 20", *got.CaloriesPer100g)
	}
	// Untouched fields survive a partial update.
	if got.ProteinPer100g == nil || *got.ProteinPer100g != 0.9 {
		t.Error("protein should be unchanged")
	}
	if got.DataSource != domain.SourceManual {
		t.Errorf("data source = %q, want Manual", got.DataSource)
	}
}

func TestNutritionService_SearchFoods(t *testing.T) {
	ctx := context.Background()
	svc, foods, _ := newNutritionFixture(t)

	tomato := &domain.FoodItem{CanonicalName: "Tomato", Category: "Vegetables"}
	if err := foods.Create(ctx, tomato); err != nil {
		t.Fatal(err)
	}
	tomato.Nutrition = &domain.NutritionData{}
	foods.items[0].Nutrition = &domain.NutritionData{}

	t.Run("empty query returns empty slice", func(t *testing.T) {
		got, err := svc.SearchFoods(ctx, "  ", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("flags nutrition availability", func(t *testing.T) {
		got, err := svc.SearchFoods(ctx, "tom", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if !got[0].HasNutritionData {
			t.Error("HasNutritionData = false, want true")
		}
	})
}
