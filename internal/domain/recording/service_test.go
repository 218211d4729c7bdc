package recording

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/patient"
)

type mockRepo struct {
	nextID int64
	items  map[int64]*Recording
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: map[int64]*Recording{}}
}

func (m *mockRepo) Create(_ context.Context, r *Recording) error {
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Recording, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, r *Recording) error {
	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64) ([]*Recording, error) {
	var out []*Recording
	for _, r := range m.items {
		if r.PatientID == patientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HospitalizationDay != out[j].HospitalizationDay {
			return out[i].HospitalizationDay < out[j].HospitalizationDay
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (m *mockRepo) GetByPatientAndType(_ context.Context, patientID int64, recordingType string) (*Recording, error) {
	var latest *Recording
	for _, r := range m.items {
		if r.PatientID == patientID && r.RecordingType == recordingType {
			if latest == nil || r.ID > latest.ID {
				latest = r
			}
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockRepo) CountByPatient(_ context.Context, patientID int64) (int, error) {
	count := 0
	for _, r := range m.items {
		if r.PatientID == patientID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Recording, error) {
	var out []*Recording
	for _, r := range m.items {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PatientID != out[j].PatientID {
			return out[i].PatientID < out[j].PatientID
		}
		if out[i].HospitalizationDay != out[j].HospitalizationDay {
			return out[i].HospitalizationDay < out[j].HospitalizationDay
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

type mockPatients struct {
	ids map[int64]bool
}

func newMockPatients() *mockPatients { return &mockPatients{ids: map[int64]bool{}} }

func (m *mockPatients) Ensure(_ context.Context, id int64) error {
	m.ids[id] = true
	return nil
}

func (m *mockPatients) Exists(_ context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

func (m *mockPatients) Delete(_ context.Context, id int64) error {
	delete(m.ids, id)
	return nil
}

func (m *mockPatients) List(_ context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	var out []*patient.Patient
	for id := range m.ids {
		out = append(out, &patient.Patient{ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func newTestService() (*Service, *mockRepo, *mockPatients) {
	repo := newMockRepo()
	patients := newMockPatients()
	return NewService(repo, patients), repo, patients
}

func admissionSubmission(patientID int64) Submission {
	adm := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return Submission{
		PatientID:     patientID,
		RecordingType: TypeAdmission,
		Fields: Recording{
			Age:           sp("72"),
			AdmissionDate: &adm,
			InitialWeight: sp("84"),
			InitialBP:     sp("130/80"),
		},
	}
}

func TestSubmit_CreatesPatientImplicitly(t *testing.T) {
	svc, _, patients := newTestService()

	if _, err := svc.Submit(context.Background(), admissionSubmission(42)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !patients.ids[42] {
		t.Error("patient 42 should exist after first submission")
	}
}

func TestSubmit_RejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), Submission{PatientID: 1, RecordingType: "followup"})
	if err == nil {
		t.Fatal("expected error for unknown recording type")
	}
}

func TestSubmit_AdmissionUpserts(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Submit(ctx, admissionSubmission(1))
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if first.HospitalizationDay != 1 {
		t.Errorf("admission day = %d, want 1", first.HospitalizationDay)
	}

	sub := admissionSubmission(1)
	sub.Fields.Age = sp("73")
	second, err := svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("resubmission created a new record: id %d vs %d", second.ID, first.ID)
	}
	if len(repo.items) != 1 {
		t.Errorf("store holds %d records, want 1", len(repo.items))
	}
	stored := repo.items[first.ID]
	if stored.Age == nil || *stored.Age != "73" {
		t.Error("resubmission should overwrite clinical fields")
	}
}

func TestSubmit_DailyAppends(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, admissionSubmission(1)); err != nil {
		t.Fatalf("admission: %v", err)
	}

	daily := Submission{
		PatientID:     1,
		RecordingType: TypeDaily,
		Fields:        Recording{Weight: sp("83")},
	}
	d1, err := svc.Submit(ctx, daily)
	if err != nil {
		t.Fatalf("first daily: %v", err)
	}
	d2, err := svc.Submit(ctx, daily)
	if err != nil {
		t.Fatalf("second daily: %v", err)
	}

	if d1.ID == d2.ID {
		t.Error("daily submissions must append, not upsert")
	}
	if len(repo.items) != 3 {
		t.Errorf("store holds %d records, want 3", len(repo.items))
	}
	if d1.HospitalizationDay != 2 || d2.HospitalizationDay != 3 {
		t.Errorf("daily days = %d, %d, want 2, 3", d1.HospitalizationDay, d2.HospitalizationDay)
	}
}

func TestSubmit_DischargeDayFromDates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, admissionSubmission(1)); err != nil {
		t.Fatalf("admission: %v", err)
	}

	dis := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	rec, err := svc.Submit(ctx, Submission{
		PatientID:     1,
		RecordingType: TypeDischarge,
		Fields:        Recording{DischargeDate: &dis, CurrentWeight: sp("80")},
	})
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if rec.HospitalizationDay != 11 {
		t.Errorf("discharge day = %d, want 11", rec.HospitalizationDay)
	}
}

func TestSubmit_ScoreComputed(t *testing.T) {
	svc, _, _ := newTestService()

	sub := admissionSubmission(1)
	sub.Fields.KCCQ2 = sp("3")
	sub.Fields.KCCQ3 = sp("4")
	sub.Fields.KCCQ4 = sp("abc")
	rec, err := svc.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.Score != 7 {
		t.Errorf("score = %d, want 7", rec.Score)
	}
}

func TestSubmit_VoiceSlotRetention(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	sub := admissionSubmission(1)
	sub.Samples = map[string][]byte{SampleStandardized: {0x4f, 0x67, 0x67, 0x53}}
	first, err := svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	resub := admissionSubmission(1)
	resub.Samples = map[string][]byte{SampleStorytelling: {0x49, 0x44, 0x33}}
	if _, err := svc.Submit(ctx, resub); err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	stored := repo.items[first.ID]
	if string(stored.VoiceSampleStandardized) != "OggS" {
		t.Error("standardized slot should survive a resubmission without a new upload")
	}
	if string(stored.VoiceSampleStorytelling) != "ID3" {
		t.Error("storytelling slot should take the new upload")
	}
}

func TestEdit_KeepsTypeAndDay(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Submit(ctx, admissionSubmission(1))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	fields := Recording{Age: sp("80"), KCCQ2: sp("5")}
	updated, err := svc.Edit(ctx, rec.ID, fields, nil)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	if updated.RecordingType != TypeAdmission {
		t.Error("edit must not change the recording type")
	}
	if updated.HospitalizationDay != rec.HospitalizationDay {
		t.Error("edit must not change the hospitalization day")
	}
	if updated.Age == nil || *updated.Age != "80" {
		t.Error("edit should overwrite clinical fields")
	}
	if updated.Score != 5 {
		t.Errorf("score = %d, want 5 after recompute", updated.Score)
	}
	if updated.InitialWeight != nil {
		t.Error("fields omitted from the edit should be cleared")
	}
}

func TestDelete_CascadesEmptyPatient(t *testing.T) {
	svc, _, patients := newTestService()
	ctx := context.Background()

	rec, err := svc.Submit(ctx, admissionSubmission(7))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	daily, err := svc.Submit(ctx, Submission{PatientID: 7, RecordingType: TypeDaily})
	if err != nil {
		t.Fatalf("daily Submit: %v", err)
	}

	if err := svc.Delete(ctx, daily.ID); err != nil {
		t.Fatalf("Delete daily: %v", err)
	}
	if !patients.ids[7] {
		t.Fatal("patient must survive while recordings remain")
	}

	if err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete admission: %v", err)
	}
	if patients.ids[7] {
		t.Error("patient should be removed with its last recording")
	}
}

func TestDeleteVoiceSample_ClearsOneSlot(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	sub := admissionSubmission(1)
	sub.Samples = map[string][]byte{
		SampleStandardized: {1, 2, 3},
		SampleVocal:        {4, 5, 6},
	}
	rec, err := svc.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := svc.DeleteVoiceSample(ctx, rec.ID, SampleVocal); err != nil {
		t.Fatalf("DeleteVoiceSample: %v", err)
	}
	stored := repo.items[rec.ID]
	if stored.VoiceSampleVocal != nil {
		t.Error("vocal slot should be cleared")
	}
	if stored.VoiceSampleStandardized == nil {
		t.Error("other slots must keep their bytes")
	}
}

func TestVoiceSample_AbsentIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Submit(ctx, admissionSubmission(1))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.VoiceSample(ctx, rec.ID, SampleStorytelling); err != ErrNotFound {
		t.Errorf("VoiceSample(empty slot) = %v, want ErrNotFound", err)
	}
}

func TestDashboard_BucketsAndFallback(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	full := completeAdmission()
	sub := Submission{PatientID: 1, RecordingType: TypeAdmission, Fields: *full}
	sub.Samples = map[string][]byte{SampleStandardized: full.VoiceSampleStandardized}
	if _, err := svc.Submit(ctx, sub); err != nil {
		t.Fatalf("admission: %v", err)
	}
	if _, err := svc.Submit(ctx, Submission{
		PatientID:     1,
		RecordingType: TypeDaily,
		Fields:        Recording{Weight: sp("83")},
	}); err != nil {
		t.Fatalf("daily: %v", err)
	}

	boards, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("boards = %d, want 1", len(boards))
	}
	board := boards[0]
	if len(board.Complete) != 1 || len(board.Incomplete) != 1 {
		t.Fatalf("buckets = %d complete, %d incomplete, want 1 and 1",
			len(board.Complete), len(board.Incomplete))
	}
	daily := board.Incomplete[0]
	if daily.InitialWeight == nil || *daily.InitialWeight != "84" {
		t.Error("daily row should inherit the admission initial weight")
	}
	if daily.Date != "2025-01-11" {
		t.Errorf("daily date = %s, want 2025-01-11", daily.Date)
	}
}

func TestPrefill(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	pre, err := svc.Prefill(ctx, 9)
	if err != nil {
		t.Fatalf("Prefill(empty): %v", err)
	}
	if pre.Latest != nil || pre.NextDay != 1 {
		t.Errorf("empty patient prefill = %+v, want no latest, day 1", pre)
	}

	if _, err := svc.Submit(ctx, admissionSubmission(9)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pre, err = svc.Prefill(ctx, 9)
	if err != nil {
		t.Fatalf("Prefill: %v", err)
	}
	if pre.Latest == nil {
		t.Fatal("prefill should carry the latest recording")
	}
	if pre.NextDay < 1 {
		t.Errorf("next day = %d, want >= 1", pre.NextDay)
	}
}
