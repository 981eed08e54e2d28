package predictor

import (
	"context"
	"hash/fnv"

	"github.com/safebite/backend/internal/domain"
)

// stubLabels are the classes the placeholder model pretends to know.
var stubLabels = []string{"Apple", "Banana", "Carrot", "Tomato"}

// Stub is a deterministic stand-in for the real classification service,
// used in development and tests. The same image bytes always produce the
// same prediction.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Predict(_ context.Context, _ string, image []byte) (*domain.Prediction, error) {
	h := fnv.New32a()
	h.Write(image)
	sum := h.Sum32()

	label := stubLabels[sum%uint32(len(stubLabels))]
	// Confidence in [0.80, 0.99], contamination in [0, 0.5).
	confidence := 0.80 + float64(sum%20)/100.0
	contamination := float64(sum%50) / 100.0

	return &domain.Prediction{
		Label:              label,
		Confidence:         confidence,
		ContaminationScore: contamination,
	}, nil
}
