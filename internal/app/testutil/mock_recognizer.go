package testutil

import (
	"context"
	"sync"
	"time"

	"audio2text/internal/app/speech"
)

// RecognizeOutcome scripts the behavior of one Recognize call.
type RecognizeOutcome struct {
	Results   []speech.Result
	SubmitErr error
	WaitErr   error
	// Delay makes Wait block, so callers can exercise the wait timeout.
	Delay time.Duration
}

// TextOutcome builds a successful outcome with one fragment per text.
func TextOutcome(texts ...string) RecognizeOutcome {
	results := make([]speech.Result, 0, len(texts))
	for _, text := range texts {
		results = append(results, speech.Result{
			Alternatives: []speech.Alternative{{Transcript: text, Confidence: 0.9}},
		})
	}
	return RecognizeOutcome{Results: results}
}

// MockRecognizer replays scripted outcomes in submission order.
type MockRecognizer struct {
	mu       sync.Mutex
	outcomes []RecognizeOutcome
	next     int
	uris     []string
	configs  []speech.RecognitionConfig
}

func NewMockRecognizer(outcomes ...RecognizeOutcome) *MockRecognizer {
	return &MockRecognizer{outcomes: outcomes}
}

func (m *MockRecognizer) Enqueue(o RecognizeOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

func (m *MockRecognizer) Recognize(ctx context.Context, audioURI string, cfg speech.RecognitionConfig) (speech.Operation, error) {
	m.mu.Lock()
	m.uris = append(m.uris, audioURI)
	m.configs = append(m.configs, cfg)

	var outcome RecognizeOutcome
	if m.next < len(m.outcomes) {
		outcome = m.outcomes[m.next]
		m.next++
	}
	m.mu.Unlock()

	if outcome.SubmitErr != nil {
		return nil, outcome.SubmitErr
	}
	return &mockOperation{outcome: outcome}, nil
}

// URIs returns the audio URIs submitted so far.
func (m *MockRecognizer) URIs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uris...)
}

// Configs returns the recognition configs submitted so far.
func (m *MockRecognizer) Configs() []speech.RecognitionConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]speech.RecognitionConfig(nil), m.configs...)
}

type mockOperation struct {
	outcome RecognizeOutcome
}

func (o *mockOperation) Wait(ctx context.Context) ([]speech.Result, error) {
	if o.outcome.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.outcome.Delay):
		}
	}
	if o.outcome.WaitErr != nil {
		return nil, o.outcome.WaitErr
	}
	return o.outcome.Results, nil
}
