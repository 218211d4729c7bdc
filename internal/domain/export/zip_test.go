package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"
)

func readArchive(t *testing.T, buf *bytes.Buffer) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	entries := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = data
	}
	return entries
}

func TestWritePatientArchive(t *testing.T) {
	recs := fixtureRecordings()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	data := BuildPatientData(7, recs, now)

	var buf bytes.Buffer
	if err := WritePatientArchive(&buf, data, recs, now); err != nil {
		t.Fatalf("WritePatientArchive: %v", err)
	}
	entries := readArchive(t, &buf)

	meta, ok := entries["patient_7_metadata.json"]
	if !ok {
		t.Fatal("metadata entry missing")
	}
	var decoded PatientData
	if err := json.Unmarshal(meta, &decoded); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if decoded.PatientID != 7 || decoded.Metadata.TotalRecordings != 3 {
		t.Errorf("decoded metadata = %+v", decoded.Metadata)
	}

	audio, ok := entries["audio/patient_7_admission_day_1_standardized.ogg"]
	if !ok {
		t.Fatal("admission audio entry missing")
	}
	if !bytes.Equal(audio, []byte("OggS voice sample")) {
		t.Error("audio bytes must be stored verbatim")
	}
	if _, ok := entries["audio/patient_7_discharge_day_3_vocal.mp3"]; !ok {
		t.Error("discharge vocal audio entry missing")
	}

	readme, ok := entries["README.md"]
	if !ok {
		t.Fatal("README.md missing")
	}
	if !strings.Contains(string(readme), "Patient 7") ||
		!strings.Contains(string(readme), "Total Recordings: 3") {
		t.Error("README should carry the export stats")
	}
}

func TestWriteCohortArchive(t *testing.T) {
	recs := fixtureRecordings()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	bundles := []PatientBundle{{
		Data:       BuildPatientData(7, recs, now),
		Recordings: recs,
	}}

	var buf bytes.Buffer
	if err := WriteCohortArchive(&buf, bundles, now); err != nil {
		t.Fatalf("WriteCohortArchive: %v", err)
	}
	entries := readArchive(t, &buf)

	meta, ok := entries["all_patients_metadata.json"]
	if !ok {
		t.Fatal("master metadata entry missing")
	}
	var cohort CohortData
	if err := json.Unmarshal(meta, &cohort); err != nil {
		t.Fatalf("decode cohort metadata: %v", err)
	}
	if cohort.TotalPatients != 1 {
		t.Errorf("total_patients = %d, want 1", cohort.TotalPatients)
	}
	if _, ok := cohort.Patients["7"]; !ok {
		t.Error("patients map should be keyed by patient id string")
	}

	if _, ok := entries["audio/patient_7/admission_day_1_standardized.ogg"]; !ok {
		t.Error("cohort audio entries should live under per-patient directories")
	}
	if readme, ok := entries["README.md"]; !ok || !strings.Contains(string(readme), "Total Audio Files: 2") {
		t.Error("cohort README should carry the audio file count")
	}
}
