package speech

import "context"

// EncodingFLAC is the codec every uploaded segment uses.
const EncodingFLAC = "FLAC"

// RecognitionConfig is the fixed per-segment request the pipeline submits.
type RecognitionConfig struct {
	Encoding                   string
	SampleRateHertz            int32
	LanguageCode               string
	EnableAutomaticPunctuation bool
}

// Alternative is one ranked hypothesis for a result fragment.
type Alternative struct {
	Transcript string
	Confidence float32
}

// Result is one fragment of a completed recognition, in service order.
type Result struct {
	Alternatives []Alternative
}

// Operation is a handle to one in-flight long-running recognition. It exists
// only for the duration of one segment's transcription attempt.
type Operation interface {
	// Wait blocks until the operation completes or ctx expires. A deadline
	// hit surfaces as ctx.Err().
	Wait(ctx context.Context) ([]Result, error)
}

// Recognizer submits long-running recognition requests against uploaded
// blob URIs.
type Recognizer interface {
	Recognize(ctx context.Context, audioURI string, cfg RecognitionConfig) (Operation, error)
}
