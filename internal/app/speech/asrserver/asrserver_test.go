package asrserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio2text/internal/app/speech"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		PollInterval: 5 * time.Millisecond,
	}
}

func recognitionConfig() speech.RecognitionConfig {
	return speech.RecognitionConfig{
		Encoding:                   speech.EncodingFLAC,
		SampleRateHertz:            16000,
		LanguageCode:               "en-US",
		EnableAutomaticPunctuation: true,
	}
}

func TestRecognize_SubmitThenPoll(t *testing.T) {
	var polls atomic.Int32
	var submitted submitRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recognize", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(submitResponse{OperationID: "op-1"})
	})
	mux.HandleFunc("GET /v1/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			json.NewEncoder(w).Encode(operationResponse{Done: false})
			return
		}
		json.NewEncoder(w).Encode(operationResponse{
			Done: true,
			Results: []operationResult{
				{Alternatives: []operationAlternative{{Transcript: "hello world", Confidence: 0.92}}},
				{Alternatives: []operationAlternative{{Transcript: "goodbye now", Confidence: 0.88}}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := NewRecognizer(testConfig(srv.URL))
	op, err := rec.Recognize(context.Background(), "s3://bucket/segment_000.flac", recognitionConfig())
	require.NoError(t, err)

	results, err := op.Wait(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "hello world", results[0].Alternatives[0].Transcript)
	assert.Equal(t, "goodbye now", results[1].Alternatives[0].Transcript)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))

	assert.Equal(t, "s3://bucket/segment_000.flac", submitted.URI)
	assert.Equal(t, speech.EncodingFLAC, submitted.Encoding)
	assert.Equal(t, int32(16000), submitted.SampleRateHertz)
	assert.Equal(t, "en-US", submitted.LanguageCode)
	assert.True(t, submitted.EnableAutomaticPunctuation)
}

func TestRecognize_SubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rec := NewRecognizer(testConfig(srv.URL))
	_, err := rec.Recognize(context.Background(), "s3://bucket/key", recognitionConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRecognize_MissingOperationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	rec := NewRecognizer(testConfig(srv.URL))
	_, err := rec.Recognize(context.Background(), "s3://bucket/key", recognitionConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no operation id")
}

func TestWait_OperationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recognize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submitResponse{OperationID: "op-err"})
	})
	mux.HandleFunc("GET /v1/operations/op-err", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(operationResponse{Done: true, Error: "audio too short"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := NewRecognizer(testConfig(srv.URL))
	op, err := rec.Recognize(context.Background(), "s3://bucket/key", recognitionConfig())
	require.NoError(t, err)

	_, err = op.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio too short")
}

func TestWait_ContextDeadline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recognize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submitResponse{OperationID: "op-slow"})
	})
	mux.HandleFunc("GET /v1/operations/op-slow", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(operationResponse{Done: false})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := NewRecognizer(testConfig(srv.URL))
	op, err := rec.Recognize(context.Background(), "s3://bucket/key", recognitionConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = op.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
