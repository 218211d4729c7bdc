package export

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/recording"
)

var (
	ErrNoRecordings = errors.New("patient has no recordings")
	ErrNoPatients   = errors.New("no patients to export")
)

type Service struct {
	recordings recording.Repository
}

func NewService(recordings recording.Repository) *Service {
	return &Service{recordings: recordings}
}

// PatientArchive materializes one patient's ZIP dataset into w.
func (s *Service) PatientArchive(ctx context.Context, patientID int64, w io.Writer) error {
	recs, err := s.recordings.ListByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	now := time.Now()
	data := BuildPatientData(patientID, recs, now)
	if data == nil {
		return ErrNoRecordings
	}
	return WritePatientArchive(w, data, recs, now)
}

// CohortArchive materializes the all-patients ZIP dataset into w.
func (s *Service) CohortArchive(ctx context.Context, w io.Writer) error {
	all, err := s.recordings.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return ErrNoPatients
	}

	now := time.Now()
	byPatient := map[int64][]*recording.Recording{}
	var order []int64
	for _, rec := range all {
		if _, ok := byPatient[rec.PatientID]; !ok {
			order = append(order, rec.PatientID)
		}
		byPatient[rec.PatientID] = append(byPatient[rec.PatientID], rec)
	}

	bundles := make([]PatientBundle, 0, len(order))
	for _, id := range order {
		recs := byPatient[id]
		bundles = append(bundles, PatientBundle{
			Data:       BuildPatientData(id, recs, now),
			Recordings: recs,
		})
	}
	return WriteCohortArchive(w, bundles, now)
}

// PatientCSV materializes one patient's flat CSV into w.
func (s *Service) PatientCSV(ctx context.Context, patientID int64, w io.Writer) error {
	recs, err := s.recordings.ListByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return ErrNoRecordings
	}
	return WriteCSV(w, recs)
}
