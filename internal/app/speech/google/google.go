package google

import (
	"context"
	"fmt"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"audio2text/internal/app/speech"
)

// Recognizer implements long-running recognition against the Google Cloud
// Speech-to-Text API. Audio URIs must point at Cloud Storage (gs://), so this
// provider is paired with the GCS blob store.
type Recognizer struct {
	client *speechapi.Client
}

func NewRecognizer(ctx context.Context) (*Recognizer, error) {
	client, err := speechapi.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Recognizer{client: client}, nil
}

func (r *Recognizer) Close() error {
	return r.client.Close()
}

func (r *Recognizer) Recognize(ctx context.Context, audioURI string, cfg speech.RecognitionConfig) (speech.Operation, error) {
	op, err := r.client.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encodingOf(cfg.Encoding),
			SampleRateHertz:            cfg.SampleRateHertz,
			LanguageCode:               cfg.LanguageCode,
			EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audioURI},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("long-running recognize %s: %w", audioURI, err)
	}
	return &operation{op: op}, nil
}

type operation struct {
	op *speechapi.LongRunningRecognizeOperation
}

func (o *operation) Wait(ctx context.Context) ([]speech.Result, error) {
	resp, err := o.op.Wait(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]speech.Result, 0, len(resp.GetResults()))
	for _, res := range resp.GetResults() {
		alts := make([]speech.Alternative, 0, len(res.GetAlternatives()))
		for _, alt := range res.GetAlternatives() {
			alts = append(alts, speech.Alternative{
				Transcript: alt.GetTranscript(),
				Confidence: alt.GetConfidence(),
			})
		}
		results = append(results, speech.Result{Alternatives: alts})
	}
	return results, nil
}

func encodingOf(name string) speechpb.RecognitionConfig_AudioEncoding {
	switch name {
	case speech.EncodingFLAC:
		return speechpb.RecognitionConfig_FLAC
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
