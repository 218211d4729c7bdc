package recording

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/patient"
)

var ErrInvalidType = errors.New("invalid recording type")

type Service struct {
	repo     Repository
	patients patient.Repository
}

func NewService(repo Repository, patients patient.Repository) *Service {
	return &Service{repo: repo, patients: patients}
}

// Submission is one capture-form submit. Fields carries the clinical
// values the form provided; Samples carries only the voice slots that
// came with a non-empty upload.
type Submission struct {
	PatientID     int64
	RecordingType string
	SubmittedDay  *int
	Fields        Recording
	Samples       map[string][]byte
}

// Submit applies the write policy: admission and discharge records are
// upserted in place per patient, daily records always append. The
// patient row is created implicitly, the hospitalization day and the
// questionnaire score are computed server-side, and voice slots are
// only overwritten when the submission carries new bytes for them.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Recording, error) {
	if !ValidType(sub.RecordingType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, sub.RecordingType)
	}
	if err := s.patients.Ensure(ctx, sub.PatientID); err != nil {
		return nil, fmt.Errorf("ensure patient: %w", err)
	}

	var rec *Recording
	isNew := true
	if sub.RecordingType == TypeAdmission || sub.RecordingType == TypeDischarge {
		existing, err := s.repo.GetByPatientAndType(ctx, sub.PatientID, sub.RecordingType)
		switch {
		case err == nil:
			rec = existing
			isNew = false
		case errors.Is(err, ErrNotFound):
		default:
			return nil, err
		}
	}
	if rec == nil {
		rec = &Recording{
			PatientID:     sub.PatientID,
			RecordingType: sub.RecordingType,
			Date:          time.Now(),
		}
	}

	applyFields(rec, &sub.Fields)

	admissionDate := sub.Fields.AdmissionDate
	if sub.RecordingType != TypeAdmission {
		admissionDate = s.admissionDate(ctx, sub.PatientID)
	}
	count, err := s.repo.CountByPatient(ctx, sub.PatientID)
	if err != nil {
		return nil, err
	}
	rec.HospitalizationDay = ResolveDay(sub.RecordingType, sub.SubmittedDay,
		admissionDate, sub.Fields.DischargeDate, count)

	for slot, data := range sub.Samples {
		if len(data) == 0 {
			continue
		}
		if err := rec.SetVoiceSample(slot, data); err != nil {
			return nil, err
		}
	}
	rec.Score = ComputeScore(rec)

	if isNew {
		err = s.repo.Create(ctx, rec)
	} else {
		err = s.repo.Update(ctx, rec)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Edit replaces the clinical fields of an existing recording. The
// recording type, hospitalization day, patient, and capture timestamp
// stay as they are; the score is recomputed and voice slots only change
// when new bytes are provided.
func (s *Service) Edit(ctx context.Context, id int64, fields Recording, samples map[string][]byte) (*Recording, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyFields(rec, &fields)
	for slot, data := range samples {
		if len(data) == 0 {
			continue
		}
		if err := rec.SetVoiceSample(slot, data); err != nil {
			return nil, err
		}
	}
	rec.Score = ComputeScore(rec)

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Recording, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a recording; when it was the patient's last one the
// patient row goes with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	remaining, err := s.repo.CountByPatient(ctx, rec.PatientID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.patients.Delete(ctx, rec.PatientID)
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Recording, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// VoiceSample returns the bytes stored in one slot, or ErrNotFound when
// the slot is empty.
func (s *Service) VoiceSample(ctx context.Context, id int64, slot string) ([]byte, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := rec.VoiceSample(slot)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// DeleteVoiceSample clears one slot without touching the rest of the
// recording.
func (s *Service) DeleteVoiceSample(ctx context.Context, id int64, slot string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := rec.SetVoiceSample(slot, nil); err != nil {
		return err
	}
	return s.repo.Update(ctx, rec)
}

// RecordSummary is one dashboard row.
type RecordSummary struct {
	RecordingID        int64           `json:"recording_id"`
	RecordingType      string          `json:"recording_type"`
	HospitalizationDay int             `json:"hospitalization_day"`
	Date               string          `json:"date"`
	Score              int             `json:"score"`
	Weight             *string         `json:"weight,omitempty"`
	BP                 *string         `json:"bp,omitempty"`
	InitialWeight      *string         `json:"initial_weight,omitempty"`
	InitialBP          *string         `json:"initial_bp,omitempty"`
	VoiceSamples       map[string]bool `json:"voice_samples"`
}

// PatientDashboard buckets one patient's recordings by completeness.
type PatientDashboard struct {
	PatientID  int64            `json:"patient_id"`
	Complete   []*RecordSummary `json:"complete"`
	Incomplete []*RecordSummary `json:"incomplete"`
}

// Dashboard classifies every recording of every patient. Completeness
// is judged on the stored values; afterwards daily and discharge rows
// inherit the admission record's initial weight, initial blood
// pressure, and admission date for display.
func (s *Service) Dashboard(ctx context.Context) ([]*PatientDashboard, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	admissionByPatient := map[int64]*Recording{}
	for _, rec := range all {
		if rec.RecordingType == TypeAdmission {
			admissionByPatient[rec.PatientID] = rec
		}
	}

	byPatient := map[int64]*PatientDashboard{}
	var order []int64
	for _, rec := range all {
		complete := IsComplete(rec)

		adm := admissionByPatient[rec.PatientID]
		if rec.RecordingType != TypeAdmission && adm != nil {
			if rec.InitialWeight == nil {
				rec.InitialWeight = adm.InitialWeight
			}
			if rec.InitialBP == nil {
				rec.InitialBP = adm.InitialBP
			}
			if rec.AdmissionDate == nil {
				rec.AdmissionDate = adm.AdmissionDate
			}
		}

		var admissionDate *time.Time
		if adm != nil {
			admissionDate = adm.AdmissionDate
		}
		summary := &RecordSummary{
			RecordingID:        rec.ID,
			RecordingType:      rec.RecordingType,
			HospitalizationDay: rec.HospitalizationDay,
			Date:               FormattedCalculatedDate(rec, admissionDate),
			Score:              rec.Score,
			Weight:             rec.Weight,
			BP:                 rec.BP,
			InitialWeight:      rec.InitialWeight,
			InitialBP:          rec.InitialBP,
			VoiceSamples: map[string]bool{
				SampleStandardized: rec.VoiceSampleStandardized != nil,
				SampleStorytelling: rec.VoiceSampleStorytelling != nil,
				SampleVocal:        rec.VoiceSampleVocal != nil,
			},
		}

		board, ok := byPatient[rec.PatientID]
		if !ok {
			board = &PatientDashboard{PatientID: rec.PatientID}
			byPatient[rec.PatientID] = board
			order = append(order, rec.PatientID)
		}
		if complete {
			board.Complete = append(board.Complete, summary)
		} else {
			board.Incomplete = append(board.Incomplete, summary)
		}
	}

	boards := make([]*PatientDashboard, 0, len(order))
	for _, id := range order {
		boards = append(boards, byPatient[id])
	}
	return boards, nil
}

// Prefill returns the material the capture form pre-populates from: the
// patient's most recent recording and the suggested hospitalization day
// counted from the first recording's date to today.
type Prefill struct {
	Latest  *Recording `json:"latest,omitempty"`
	NextDay int        `json:"next_day"`
}

func (s *Service) Prefill(ctx context.Context, patientID int64) (*Prefill, error) {
	recs, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return &Prefill{NextDay: 1}, nil
	}
	first, last := recs[0], recs[len(recs)-1]
	return &Prefill{
		Latest:  last,
		NextDay: daysBetween(first.Date, time.Now()) + 1,
	}, nil
}

// admissionDate looks up the patient's admission record date; nil when
// the patient has no admission record yet.
func (s *Service) admissionDate(ctx context.Context, patientID int64) *time.Time {
	adm, err := s.repo.GetByPatientAndType(ctx, patientID, TypeAdmission)
	if err != nil {
		return nil
	}
	return adm.AdmissionDate
}

// applyFields overwrites every clinical field of dst with src's values,
// absent ones included. Identity, type, day, timestamp, and voice
// slots are untouched.
func applyFields(dst, src *Recording) {
	dst.Age = src.Age
	dst.Gender = src.Gender
	dst.Height = src.Height
	dst.Diagnosis = src.Diagnosis
	dst.Medication = src.Medication
	dst.Comorbidities = src.Comorbidities
	dst.AdmissionDate = src.AdmissionDate
	dst.NTproBNP = src.NTproBNP
	dst.Kalium = src.Kalium
	dst.Natrium = src.Natrium
	dst.KreatininGFR = src.KreatininGFR
	dst.Harnstoff = src.Harnstoff
	dst.Hb = src.Hb
	dst.InitialWeight = src.InitialWeight
	dst.InitialBP = src.InitialBP

	dst.Weight = src.Weight
	dst.BP = src.BP
	dst.Pulse = src.Pulse
	dst.MedicationChanges = src.MedicationChanges
	dst.NTproBNPDaily = src.NTproBNPDaily
	dst.KaliumDaily = src.KaliumDaily
	dst.NatriumDaily = src.NatriumDaily
	dst.KreatininGFRDaily = src.KreatininGFRDaily
	dst.HarnstoffDaily = src.HarnstoffDaily
	dst.HbDaily = src.HbDaily

	dst.CurrentWeight = src.CurrentWeight
	dst.DischargeMedication = src.DischargeMedication
	dst.DischargeDate = src.DischargeDate
	dst.EstimatedDryweight = src.EstimatedDryweight
	dst.AbschlussLabor = src.AbschlussLabor
	dst.DischargeNTproBNP = src.DischargeNTproBNP
	dst.DischargeKalium = src.DischargeKalium
	dst.DischargeNatrium = src.DischargeNatrium
	dst.DischargeKreatininGFR = src.DischargeKreatininGFR
	dst.DischargeHarnstoff = src.DischargeHarnstoff
	dst.DischargeHb = src.DischargeHb

	dst.KCCQ1a = src.KCCQ1a
	dst.KCCQ1b = src.KCCQ1b
	dst.KCCQ1c = src.KCCQ1c
	dst.KCCQ1d = src.KCCQ1d
	dst.KCCQ1e = src.KCCQ1e
	dst.KCCQ1f = src.KCCQ1f
	dst.KCCQ2 = src.KCCQ2
	dst.KCCQ3 = src.KCCQ3
	dst.KCCQ4 = src.KCCQ4
	dst.KCCQ5 = src.KCCQ5
	dst.KCCQ6 = src.KCCQ6
	dst.KCCQ7 = src.KCCQ7
	dst.KCCQ8 = src.KCCQ8
	dst.KCCQ9 = src.KCCQ9
	dst.KCCQ10 = src.KCCQ10
	dst.KCCQ11 = src.KCCQ11
	dst.KCCQ12 = src.KCCQ12
	dst.KCCQ13 = src.KCCQ13
	dst.KCCQ14 = src.KCCQ14
	dst.KCCQ15a = src.KCCQ15a
	dst.KCCQ15b = src.KCCQ15b
	dst.KCCQ15c = src.KCCQ15c
	dst.KCCQ15d = src.KCCQ15d
	dst.KCCQ16 = src.KCCQ16
}
