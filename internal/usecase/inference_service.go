package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// InferenceService runs the image round-trip: predict, resolve the label to
// the catalog, attach nutrition when available, persist the result.
type InferenceService struct {
	predictor  domain.Predictor
	resolver   *Resolver
	nutrition  *NutritionService
	inferences domain.InferenceRepository
	timeout    time.Duration
	log        *logger.Logger
}

func NewInferenceService(
	predictor domain.Predictor,
	resolver *Resolver,
	nutrition *NutritionService,
	inferences domain.InferenceRepository,
	timeout time.Duration,
	log *logger.Logger,
) *InferenceService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &InferenceService{
		predictor:  predictor,
		resolver:   resolver,
		nutrition:  nutrition,
		inferences: inferences,
		timeout:    timeout,
		log:        log,
	}
}

// Classify sends the image to the predictor and stores the outcome. A
// prediction with no catalog match is still a success: the inference is
// persisted with a nil food item and no nutrition info.
func (s *InferenceService) Classify(ctx context.Context, userID uint, imagePath, filename string, image []byte) (*domain.InferenceResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", domain.ErrValidation)
	}

	predictCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prediction, err := s.predictor.Predict(predictCtx, filename, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	inference := &domain.Inference{
		UserID:             userID,
		ImagePath:          imagePath,
		Label:              prediction.Label,
		Confidence:         prediction.Confidence,
		ContaminationScore: prediction.ContaminationScore,
	}

	result := &domain.InferenceResult{}

	matched, err := s.resolver.Resolve(ctx, prediction.Label)
	if err != nil {
		return nil, err
	}
	if matched != nil {
		inference.FoodItemID = &matched.ID
		result.MatchedFood = matched

		report, err := s.nutrition.GetByFoodID(ctx, matched.ID)
		if err != nil {
			return nil, err
		}
		result.NutritionInfo = report
	}

	if err := s.inferences.Create(ctx, inference); err != nil {
		return nil, err
	}
	result.Inference = *inference

	s.log.Info("inference stored",
		"inference_id", inference.ID,
		"user_id", userID,
		"label", prediction.Label,
		"matched", matched != nil)
	return result, nil
}

// Get returns a stored inference. Consumers may only read their own records;
// admins may read any.
func (s *InferenceService) Get(ctx context.Context, id, userID uint, role domain.UserRole) (*domain.Inference, error) {
	inference, err := s.inferences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && inference.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inference, nil
}
