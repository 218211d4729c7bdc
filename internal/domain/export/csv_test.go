package export

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	recs := fixtureRecordings()
	recs[2].EstimatedDryweight = sp("79")

	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3 records", len(rows))
	}

	header := rows[0]
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"patient_id", "estimated_dryweight", "kccq16", "has_audio_vocal"} {
		if _, ok := col[name]; !ok {
			t.Fatalf("header missing column %s", name)
		}
	}
	if len(header) != len(csvHeader) {
		t.Errorf("header has %d columns, want %d", len(header), len(csvHeader))
	}

	admission := rows[1]
	if admission[col["recording_type"]] != "admission" || admission[col["patient_id"]] != "7" {
		t.Errorf("unexpected first row: %v", admission)
	}
	if admission[col["date"]] != "2025-01-10" {
		t.Errorf("admission date = %s, want 2025-01-10", admission[col["date"]])
	}
	if admission[col["has_audio_standardized"]] != "true" || admission[col["has_audio_vocal"]] != "false" {
		t.Error("audio presence booleans misaligned")
	}

	discharge := rows[3]
	if discharge[col["estimated_dryweight"]] != "79" {
		t.Errorf("estimated_dryweight = %q, want 79", discharge[col["estimated_dryweight"]])
	}
	if discharge[col["ntprobnp"]] != "" {
		t.Error("discharge row should leave the admission lab column empty")
	}
	if discharge[col["has_audio_vocal"]] != "true" {
		t.Error("discharge vocal presence should be true")
	}
}
