package recording

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("recording not found")

// Repository is the persistence boundary for recordings. Voice-sample
// blobs travel with the record; the service layer decides which slots
// to overwrite on resubmission.
type Repository interface {
	Create(ctx context.Context, r *Recording) error
	GetByID(ctx context.Context, id int64) (*Recording, error)
	Update(ctx context.Context, r *Recording) error
	Delete(ctx context.Context, id int64) error

	// ListByPatient returns the patient's recordings ordered by
	// hospitalization day, then capture time.
	ListByPatient(ctx context.Context, patientID int64) ([]*Recording, error)

	// GetByPatientAndType returns the most recent recording of the given
	// type for the patient, or ErrNotFound.
	GetByPatientAndType(ctx context.Context, patientID int64, recordingType string) (*Recording, error)

	CountByPatient(ctx context.Context, patientID int64) (int, error)

	// ListAll returns every recording ordered by patient, day, then
	// capture time. Used by the export aggregator.
	ListAll(ctx context.Context) ([]*Recording, error)
}
