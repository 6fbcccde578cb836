package asrserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"audio2text/internal/app/speech"
)

// Config configures the HTTP recognizer.
type Config struct {
	BaseURL        string
	SubmitPath     string        // default "/v1/recognize"
	OperationsPath string        // default "/v1/operations"
	HTTPTimeout    time.Duration // per-request timeout, default 30s
	PollInterval   time.Duration // initial poll backoff, default 2s
}

// Recognizer talks to a self-hosted recognition server exposing a
// submit-then-poll long-running operation API. It accepts whatever blob URI
// the configured store produces, which makes it the partner of the MinIO
// store for fully self-hosted deployments.
type Recognizer struct {
	cfg    Config
	client *http.Client
}

func NewRecognizer(cfg Config) *Recognizer {
	if cfg.SubmitPath == "" {
		cfg.SubmitPath = "/v1/recognize"
	}
	if cfg.OperationsPath == "" {
		cfg.OperationsPath = "/v1/operations"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Recognizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type submitRequest struct {
	URI                        string `json:"uri"`
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int32  `json:"sample_rate_hertz"`
	LanguageCode               string `json:"language_code"`
	EnableAutomaticPunctuation bool   `json:"enable_automatic_punctuation"`
}

type submitResponse struct {
	OperationID string `json:"operation_id"`
}

type operationResponse struct {
	Done    bool              `json:"done"`
	Error   string            `json:"error,omitempty"`
	Results []operationResult `json:"results,omitempty"`
}

type operationResult struct {
	Alternatives []operationAlternative `json:"alternatives"`
}

type operationAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float32 `json:"confidence"`
}

func (r *Recognizer) Recognize(ctx context.Context, audioURI string, cfg speech.RecognitionConfig) (speech.Operation, error) {
	body, err := json.Marshal(submitRequest{
		URI:                        audioURI,
		Encoding:                   cfg.Encoding,
		SampleRateHertz:            cfg.SampleRateHertz,
		LanguageCode:               cfg.LanguageCode,
		EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+r.cfg.SubmitPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit recognition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("submit recognition: server returned %d: %s", resp.StatusCode, payload)
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return nil, fmt.Errorf("submit recognition: decode response: %w", err)
	}
	if submitted.OperationID == "" {
		return nil, errors.New("submit recognition: server returned no operation id")
	}

	return &operation{recognizer: r, id: submitted.OperationID}, nil
}

type operation struct {
	recognizer *Recognizer
	id         string
}

var errPending = errors.New("operation still pending")

// Wait polls the operation with exponential backoff until it completes or ctx
// expires.
func (o *operation) Wait(ctx context.Context) ([]speech.Result, error) {
	var final operationResponse

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.recognizer.cfg.PollInterval
	b.MaxInterval = 10 * o.recognizer.cfg.PollInterval
	b.MaxElapsedTime = 0 // bounded by ctx, not by the backoff policy

	poll := func() error {
		status, err := o.recognizer.fetchOperation(ctx, o.id)
		if err != nil {
			return err
		}
		if !status.Done {
			return errPending
		}
		final = status
		return nil
	}

	if err := backoff.Retry(poll, backoff.WithContext(b, ctx)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	if final.Error != "" {
		return nil, fmt.Errorf("recognition failed: %s", final.Error)
	}

	results := make([]speech.Result, 0, len(final.Results))
	for _, res := range final.Results {
		alts := make([]speech.Alternative, 0, len(res.Alternatives))
		for _, alt := range res.Alternatives {
			alts = append(alts, speech.Alternative{
				Transcript: alt.Transcript,
				Confidence: alt.Confidence,
			})
		}
		results = append(results, speech.Result{Alternatives: alts})
	}
	return results, nil
}

func (r *Recognizer) fetchOperation(ctx context.Context, id string) (operationResponse, error) {
	url := fmt.Sprintf("%s%s/%s", r.cfg.BaseURL, r.cfg.OperationsPath, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return operationResponse{}, backoff.Permanent(err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return operationResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return operationResponse{}, fmt.Errorf("poll operation %s: server returned %d: %s", id, resp.StatusCode, payload)
	}

	var status operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return operationResponse{}, fmt.Errorf("poll operation %s: decode response: %w", id, err)
	}
	return status, nil
}
