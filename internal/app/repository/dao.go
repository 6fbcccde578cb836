package repository

import "audio2text/internal/app/model"

// RunDAO persists pipeline run history.
type RunDAO interface {
	Record(run model.RunRecord) error
	Recent(limit int) ([]model.RunRecord, error)
	Close() error
}
