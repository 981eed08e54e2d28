package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// Client calls an external image classification service over HTTP. The
// service exposes a single POST /predict endpoint taking a multipart image
// and returning a label with confidence and contamination scores.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         *logger.Logger
}

// NewClient creates a predictor client. ratePerMinute bounds outgoing
// request volume; the burst allows short spikes.
func NewClient(baseURL string, timeout time.Duration, ratePerMinute int, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if ratePerMinute <= 0 {
		ratePerMinute = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		rateLimiter: limiter,
		log:         log,
	}
}

// Predict uploads the image and returns the decoded prediction. Transient
// failures are retried up to 3 times with a linear backoff.
func (c *Client) Predict(ctx context.Context, filename string, image []byte) (*domain.Prediction, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		prediction, err := c.predictOnce(ctx, filename, image)
		if err == nil {
			return prediction, nil
		}
		lastErr = err
		c.log.Warn("predictor request failed", "attempt", attempt, "error", err)

		select {
		case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, ctx.Err())
		}
	}
	return nil, lastErr
}

func (c *Client) predictOnce(ctx context.Context, filename string, image []byte) (*domain.Prediction, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", "SafeBite/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var prediction domain.Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrUpstream, err)
	}
	return &prediction, nil
}
