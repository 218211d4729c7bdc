package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/recording"
	"github.com/hfvoice/hfvoice/internal/platform/audio"
)

// WritePatientArchive streams one patient's dataset as a ZIP: the
// metadata JSON, the raw audio blobs under audio/, and a README for the
// analysis team.
func WritePatientArchive(w io.Writer, data *PatientData, recs []*recording.Recording, now time.Time) error {
	zw := zip.NewWriter(w)

	if err := writeJSONEntry(zw, fmt.Sprintf("patient_%d_metadata.json", data.PatientID), data); err != nil {
		return err
	}

	for _, rec := range recs {
		key := audioKey(rec)
		for _, slot := range []string{recording.SampleStandardized, recording.SampleStorytelling, recording.SampleVocal} {
			sample, _ := rec.VoiceSample(slot)
			if sample == nil {
				continue
			}
			name := fmt.Sprintf("audio/patient_%d_%s_%s.%s",
				data.PatientID, key, slot, audio.Detect(sample).Ext())
			if err := writeEntry(zw, name, sample); err != nil {
				return err
			}
		}
	}

	readme := patientReadme(data, now)
	if err := writeEntry(zw, "README.md", []byte(readme)); err != nil {
		return err
	}
	return zw.Close()
}

// PatientBundle pairs one patient's dataset with its raw recordings for
// the cohort archive.
type PatientBundle struct {
	Data       *PatientData
	Recordings []*recording.Recording
}

// WriteCohortArchive streams every patient's dataset into one ZIP with
// per-patient audio directories and a master metadata file.
func WriteCohortArchive(w io.Writer, bundles []PatientBundle, now time.Time) error {
	zw := zip.NewWriter(w)

	cohort := CohortData{
		ExportTimestamp: now.Format(time.RFC3339),
		TotalPatients:   len(bundles),
		Patients:        map[string]*PatientData{},
	}

	totalAudio := 0
	for _, b := range bundles {
		cohort.Patients[fmt.Sprintf("%d", b.Data.PatientID)] = b.Data
		for _, rec := range b.Recordings {
			key := audioKey(rec)
			for _, slot := range []string{recording.SampleStandardized, recording.SampleStorytelling, recording.SampleVocal} {
				sample, _ := rec.VoiceSample(slot)
				if sample == nil {
					continue
				}
				name := fmt.Sprintf("audio/patient_%d/%s_%s.%s",
					b.Data.PatientID, key, slot, audio.Detect(sample).Ext())
				if err := writeEntry(zw, name, sample); err != nil {
					return err
				}
				totalAudio++
			}
		}
	}

	if err := writeJSONEntry(zw, "all_patients_metadata.json", cohort); err != nil {
		return err
	}
	if err := writeEntry(zw, "README.md", []byte(cohortReadme(len(bundles), totalAudio, now))); err != nil {
		return err
	}
	return zw.Close()
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return writeEntry(zw, name, buf)
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func patientReadme(data *PatientData, now time.Time) string {
	return fmt.Sprintf(`# Patient %[1]d - AI Development Dataset

## Structure
- `+"`patient_%[1]d_metadata.json`"+`: Complete patient data in structured format
- `+"`audio/`"+`: Raw audio files organized by recording type and day

## Audio File Naming Convention
- Format: `+"`patient_{id}_{type}_day_{day}_{sample_type}.{extension}`"+`
- Types: admission, daily, discharge
- Sample types: standardized, storytelling, vocal

## Metadata Structure
- `+"`admission_data`"+`: Demographics, clinical data, lab values, KCCQ scores
- `+"`daily_data`"+`: Daily vitals, medication changes, lab values (array of days)
- `+"`discharge_data`"+`: Discharge information, final lab values, KCCQ scores
- `+"`audio_files`"+`: Metadata about available audio files

## KCCQ Score Categories
- Physical Limitation (kccq1a-1f)
- Symptom Stability (kccq2)
- Symptom Frequency (kccq3-8)
- Symptom Burden (kccq9-12)
- Self Efficacy (kccq13-14)
- Quality of Life (kccq15a-15d)
- Social Limitation (kccq16)

## Export Information
- Export Date: %[2]s
- Total Recordings: %[3]d
- Hospitalization Days: %[4]v
`, data.PatientID, now.Format(time.RFC3339), data.Metadata.TotalRecordings, data.Metadata.HospitalizationDays)
}

func cohortReadme(patients, audioFiles int, now time.Time) string {
	return fmt.Sprintf(`# Complete AI Development Dataset - All Patients

## Overview
This dataset contains complete medical and voice data from %[1]d patients for AI/ML development.

## Structure
- `+"`all_patients_metadata.json`"+`: Master metadata file with all patient data
- `+"`audio/patient_{id}/`"+`: Audio files organized by patient ID
- Each patient folder contains audio files named: `+"`{type}_day_{day}_{sample_type}.{extension}`"+`

## Dataset Statistics
- Total Patients: %[1]d
- Total Audio Files: %[2]d
- Export Date: %[3]s

## File Formats
Audio files are stored in their original format (WebM, OGG, MP3, WAV, M4A).

## Data Privacy
This dataset is for authorized AI development only. Ensure compliance with data protection regulations.

## Usage Guidelines
1. Load `+"`all_patients_metadata.json`"+` for structured data access
2. Audio files can be loaded using standard audio processing libraries
3. KCCQ scores are organized by clinical categories for easy analysis
4. Longitudinal data is available through daily recordings

## Contact
For questions about this dataset, contact the system administrator.
`, patients, audioFiles, now.Format(time.RFC3339))
}
