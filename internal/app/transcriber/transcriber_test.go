package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audio2text/internal/app/model"
	"audio2text/internal/app/speech"
	"audio2text/internal/app/testutil"
)

func testSegment(t *testing.T) model.Segment {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "segment_000.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3"), 0o644))
	return model.Segment{Index: 0, Start: 0, Duration: 5 * time.Minute, Path: path}
}

func newTestTranscriber(codec *testutil.MockCodec, store *testutil.MockBlobStore, rec *testutil.MockRecognizer) *SegmentTranscriber {
	return New(codec, store, rec, Options{
		Language:    "en-US",
		WaitTimeout: 100 * time.Millisecond,
		KeyPrefix:   "segments/testrun1",
	}, zap.NewNop())
}

func TestTranscribe_Success(t *testing.T) {
	seg := testSegment(t)
	codec := testutil.NewMockCodec(5 * time.Minute)
	store := testutil.NewMockBlobStore("bucket").WithExistingBucket()
	rec := testutil.NewMockRecognizer(testutil.TextOutcome(" hello", "world "))

	tr := newTestTranscriber(codec, store, rec)
	text, err := tr.Transcribe(context.Background(), seg)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	// The fixed recognition config goes out on every request.
	configs := rec.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, speech.RecognitionConfig{
		Encoding:                   speech.EncodingFLAC,
		SampleRateHertz:            16000,
		LanguageCode:               "en-US",
		EnableAutomaticPunctuation: true,
	}, configs[0])

	// Blob key derives from the segment file name under the run prefix.
	assert.Equal(t, []string{"segments/testrun1/segment_000.flac"}, store.Puts())
	assert.Equal(t, []string{"mock://bucket/segments/testrun1/segment_000.flac"}, rec.URIs())

	// Cleanup ran: no live blob, no re-encoded scratch file.
	assert.Equal(t, 0, store.LiveCount())
	assert.NoFileExists(t, filepath.Join(filepath.Dir(seg.Path), "segment_000.flac"))
	assert.Equal(t, 0, tr.CleanupWarnings())
}

func TestTranscribe_FirstAlternativeOnly(t *testing.T) {
	seg := testSegment(t)
	outcome := testutil.RecognizeOutcome{Results: []speech.Result{
		{Alternatives: []speech.Alternative{
			{Transcript: "top hypothesis", Confidence: 0.95},
			{Transcript: "second hypothesis", Confidence: 0.40},
		}},
		{Alternatives: nil}, // fragment without alternatives is skipped
		{Alternatives: []speech.Alternative{{Transcript: "tail", Confidence: 0.80}}},
	}}
	rec := testutil.NewMockRecognizer(outcome)
	tr := newTestTranscriber(testutil.NewMockCodec(time.Minute), testutil.NewMockBlobStore("bucket"), rec)

	text, err := tr.Transcribe(context.Background(), seg)
	require.NoError(t, err)
	assert.Equal(t, "top hypothesis tail", text)
}

func TestTranscribe_EncodeFailure(t *testing.T) {
	seg := testSegment(t)
	codec := testutil.NewMockCodec(time.Minute)
	codec.EncodeErr = errors.New("unsupported codec")
	store := testutil.NewMockBlobStore("bucket")

	tr := newTestTranscriber(codec, store, testutil.NewMockRecognizer())
	_, err := tr.Transcribe(context.Background(), seg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "re-encode segment 0")
	assert.Empty(t, store.Puts(), "nothing may be uploaded when re-encoding fails")
}

func TestTranscribe_UploadFailure(t *testing.T) {
	seg := testSegment(t)
	store := testutil.NewMockBlobStore("bucket")
	store.PutErr = errors.New("connection refused")

	tr := newTestTranscriber(testutil.NewMockCodec(time.Minute), store, testutil.NewMockRecognizer())
	_, err := tr.Transcribe(context.Background(), seg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload segment 0")

	// Failed upload leaves no blob, so no remote delete is attempted, but the
	// local re-encoded file is still removed.
	assert.Empty(t, store.Removes())
	assert.NoFileExists(t, filepath.Join(filepath.Dir(seg.Path), "segment_000.flac"))
}

func TestTranscribe_Timeout(t *testing.T) {
	seg := testSegment(t)
	store := testutil.NewMockBlobStore("bucket")
	rec := testutil.NewMockRecognizer(testutil.RecognizeOutcome{Delay: time.Second})

	tr := newTestTranscriber(testutil.NewMockCodec(time.Minute), store, rec)
	_, err := tr.Transcribe(context.Background(), seg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	// The blob never outlives the attempt, timeout included.
	assert.Equal(t, 0, store.LiveCount())
}

func TestTranscribe_RecognitionFailure(t *testing.T) {
	seg := testSegment(t)
	store := testutil.NewMockBlobStore("bucket")
	rec := testutil.NewMockRecognizer(testutil.RecognizeOutcome{WaitErr: errors.New("service unavailable")})

	tr := newTestTranscriber(testutil.NewMockCodec(time.Minute), store, rec)
	_, err := tr.Transcribe(context.Background(), seg)
	require.Error(t, err)
	assert.Equal(t, 0, store.LiveCount())
}

func TestTranscribe_CleanupFailureNeverMasksOutcome(t *testing.T) {
	seg := testSegment(t)
	store := testutil.NewMockBlobStore("bucket")
	store.RemoveErr = errors.New("permission denied")
	rec := testutil.NewMockRecognizer(testutil.TextOutcome("hello world"))

	tr := newTestTranscriber(testutil.NewMockCodec(time.Minute), store, rec)
	text, err := tr.Transcribe(context.Background(), seg)

	// A failed blob delete is a warning, not a transcription failure.
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, 1, tr.CleanupWarnings())
}

func TestJoinResults_Empty(t *testing.T) {
	assert.Equal(t, "", joinResults(nil))
	assert.Equal(t, "", joinResults([]speech.Result{{Alternatives: nil}}))
}
