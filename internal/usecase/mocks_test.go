package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/safebite/backend/internal/domain"
)

// In-memory fakes for the repository interfaces. They implement the small
// slice of semantics the services rely on: substring matching ordered by id,
// uniqueness by name, latest-unused OTP lookup.

type memFoods struct {
	mu     sync.Mutex
	nextID uint
	items  []domain.FoodItem
}

func newMemFoods() *memFoods { return &memFoods{nextID: 1} }

func (m *memFoods) List(_ context.Context, category string, offset, limit int) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FoodItem
	for _, item := range m.items {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memFoods) Search(_ context.Context, query string, limit int) ([]domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FoodItem
	for _, item := range m.items {
		if strings.Contains(strings.ToLower(item.CanonicalName), strings.ToLower(query)) {
			out = append(out, item)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memFoods) GetByID(_ context.Context, id uint) (*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memFoods) GetByName(_ context.Context, name string) (*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if strings.EqualFold(m.items[i].CanonicalName, name) {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memFoods) MatchByLabel(_ context.Context, label string) (*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *domain.FoodItem
	for i := range m.items {
		if strings.Contains(strings.ToLower(m.items[i].CanonicalName), strings.ToLower(label)) {
			if best == nil || m.items[i].ID < best.ID {
				best = &m.items[i]
			}
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	item := *best
	return &item, nil
}

func (m *memFoods) Create(_ context.Context, item *domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.nextID
	m.nextID++
	m.items = append(m.items, *item)
	return nil
}

type memNutrition struct {
	mu      sync.Mutex
	nextID  uint
	records []domain.NutritionData
}

func newMemNutrition() *memNutrition { return &memNutrition{nextID: 1} }

func (m *memNutrition) GetByFoodID(_ context.Context, foodItemID uint) (*domain.NutritionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].FoodItemID == foodItemID {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memNutrition) GetBySourceID(_ context.Context, source domain.DataSource, sourceID string) (*domain.NutritionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].DataSource == source && m.records[i].SourceID == sourceID {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memNutrition) Create(_ context.Context, data *domain.NutritionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *data)
	return nil
}

func (m *memNutrition) Update(_ context.Context, data *domain.NutritionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == data.ID {
			m.records[i] = *data
			return nil
		}
	}
	return domain.ErrNotFound
}

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	users  []domain.User
}

func newMemUsers() *memUsers { return &memUsers{nextID: 1} }

func (m *memUsers) GetByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	m.users = append(m.users, *user)
	return nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return domain.ErrNotFound
}

type memTokens struct {
	mu       sync.Mutex
	nextID   uint
	refresh  []domain.RefreshToken
	otpCodes []domain.OTPCode
}

func newMemTokens() *memTokens { return &memTokens{nextID: 1} }

func (m *memTokens) SaveRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = m.nextID
	m.nextID++
	m.refresh = append(m.refresh, *token)
	return nil
}

func (m *memTokens) GetRefreshToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.refresh {
		if m.refresh[i].Token == token {
			t := m.refresh[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTokens) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.refresh {
		if m.refresh[i].Token == token {
			m.refresh[i].Revoked = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memTokens) SaveOTP(_ context.Context, code *domain.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	code.ID = m.nextID
	m.nextID++
	m.otpCodes = append(m.otpCodes, *code)
	return nil
}

func (m *memTokens) LatestOTP(_ context.Context, email string) (*domain.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.otpCodes) - 1; i >= 0; i-- {
		if m.otpCodes[i].Email == email && !m.otpCodes[i].Used {
			c := m.otpCodes[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTokens) MarkOTPUsed(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.otpCodes {
		if m.otpCodes[i].ID == id {
			m.otpCodes[i].Used = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type memInferences struct {
	mu     sync.Mutex
	nextID uint
	rows   []domain.Inference
}

func newMemInferences() *memInferences { return &memInferences{nextID: 1} }

func (m *memInferences) Create(_ context.Context, inf *domain.Inference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inf.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, *inf)
	return nil
}

func (m *memInferences) GetByID(_ context.Context, id uint) (*domain.Inference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

// stubPredictor returns a canned prediction or error.
type stubPredictor struct {
	prediction *domain.Prediction
	err        error
	delay      time.Duration
}

func (p *stubPredictor) Predict(ctx context.Context, _ string, _ []byte) (*domain.Prediction, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.prediction, nil
}

// recordMailer captures outgoing OTP mails.
type recordMailer struct {
	mu   sync.Mutex
	sent []struct{ To, Code string }
	err  error
}

func (m *recordMailer) SendOTP(_ context.Context, to, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, struct{ To, Code string }{to, code})
	return nil
}

func floatPtr(v float64) *float64 { return &v }
