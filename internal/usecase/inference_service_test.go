package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

type inferenceFixture struct {
	svc        *InferenceService
	foods      *memFoods
	nutrition  *memNutrition
	inferences *memInferences
	predictor  *stubPredictor
}

func newInferenceFixture(t *testing.T) *inferenceFixture {
	t.Helper()
	foods := newMemFoods()
	nutrition := newMemNutrition()
	inferences := newMemInferences()
	predictor := &stubPredictor{
		prediction: &domain.Prediction{Label: "Tomato", Confidence: 0.93, ContaminationScore: 0.12},
	}
	log := logger.NewNop()
	svc := NewInferenceService(
		predictor,
		NewResolver(foods, log),
		NewNutritionService(foods, nutrition, nil, log),
		inferences,
		time.Second,
		log,
	)
	return &inferenceFixture{svc: svc, foods: foods, nutrition: nutrition, inferences: inferences, predictor: predictor}
}

func TestInferenceService_Classify(t *testing.T) {
	ctx := context.Background()
	image := []byte("fake-jpeg-bytes")

	t.Run("match attaches food and nutrition", func(t *testing.T) {
		f := newInferenceFixture(t)

		food := &domain.FoodItem{CanonicalName: "Tomato", Category: "Vegetables"}
		if err := f.foods.Create(ctx, food); err != nil {
			t.Fatal(err)
		}
		if err := f.nutrition.Create(ctx, &domain.NutritionData{
			FoodItemID:      food.ID,
			DataSource:      domain.SourceUSDA,
			CaloriesPer100g: floatPtr(18),
		}); err != nil {
			t.Fatal(err)
		}

		result, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", image)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.Label != "Tomato" || result.Confidence != 0.93 {
			t.Errorf("prediction = %q/%v", result.Label, result.Confidence)
		}
		if result.MatchedFood == nil || result.MatchedFood.ID != food.ID {
			t.Fatalf("MatchedFood = %+v, want id %d", result.MatchedFood, food.ID)
		}
		if result.NutritionInfo == nil || result.NutritionInfo.FoodName != "Tomato" {
			t.Errorf("NutritionInfo = %+v", result.NutritionInfo)
		}
		if result.FoodItemID == nil || *result.FoodItemID != food.ID {
			t.Error("stored row should reference the matched food")
		}

		stored, err := f.inferences.GetByID(ctx, result.ID)
		if err != nil {
			t.Fatalf("inference was not persisted: %v", err)
		}
		if stored.UserID != 7 {
			t.Errorf("UserID = %d, want 7", stored.UserID)
		}
	})

	t.Run("no catalog match still persists", func(t *testing.T) {
		f := newInferenceFixture(t)
		f.predictor.prediction = &domain.Prediction{Label: "Dragonfruit", Confidence: 0.8}

		result, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", image)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.MatchedFood != nil || result.NutritionInfo != nil {
			t.Error("unmatched label must not attach food or nutrition")
		}
		if result.FoodItemID != nil {
			t.Error("FoodItemID should be nil")
		}
		if _, err := f.inferences.GetByID(ctx, result.ID); err != nil {
			t.Errorf("inference was not persisted: %v", err)
		}
	})

	t.Run("matched food without nutrition yields nil info", func(t *testing.T) {
		f := newInferenceFixture(t)
		if err := f.foods.Create(ctx, &domain.FoodItem{CanonicalName: "Tomato"}); err != nil {
			t.Fatal(err)
		}

		result, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", image)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.MatchedFood == nil {
			t.Fatal("expected a catalog match")
		}
		if result.NutritionInfo != nil {
			t.Errorf("NutritionInfo = %+v, want nil", result.NutritionInfo)
		}
	})

	t.Run("predictor failure maps to ErrUpstream", func(t *testing.T) {
		f := newInferenceFixture(t)
		f.predictor.err = errors.New("connection refused")

		if _, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", image); !errors.Is(err, domain.ErrUpstream) {
			t.Errorf("error = %v, want ErrUpstream", err)
		}
		if len(f.inferences.rows) != 0 {
			t.Error("failed prediction must not be persisted")
		}
	})

	t.Run("slow predictor times out as ErrUpstream", func(t *testing.T) {
		f := newInferenceFixture(t)
		f.predictor.delay = 5 * time.Second
		f.svc.timeout = 10 * time.Millisecond

		if _, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", image); !errors.Is(err, domain.ErrUpstream) {
			t.Errorf("error = %v, want ErrUpstream", err)
		}
	})

	t.Run("empty image is a validation error", func(t *testing.T) {
		f := newInferenceFixture(t)
		if _, err := f.svc.Classify(ctx, 7, "uploads/x.jpg", "x.jpg", nil); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}

func TestInferenceService_Get(t *testing.T) {
	ctx := context.Background()
	f := newInferenceFixture(t)

	inf := &domain.Inference{UserID: 7, ImagePath: "uploads/x.jpg", Label: "Tomato"}
	if err := f.inferences.Create(ctx, inf); err != nil {
		t.Fatal(err)
	}

	t.Run("owner can read", func(t *testing.T) {
		got, err := f.svc.Get(ctx, inf.ID, 7, domain.RoleConsumer)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != inf.ID {
			t.Errorf("ID = %d, want %d", got.ID, inf.ID)
		}
	})

	t.Run("other consumers are forbidden", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, inf.ID, 8, domain.RoleConsumer); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admins can read any", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, inf.ID, 99, domain.RoleAdmin); err != nil {
			t.Errorf("Get() error = %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, 404, 7, domain.RoleConsumer); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
