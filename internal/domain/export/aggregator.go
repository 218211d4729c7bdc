package export

import (
	"fmt"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/recording"
	"github.com/hfvoice/hfvoice/internal/platform/audio"
)

const dataFormatVersion = "1.0"

// AudioFileInfo describes one exported voice sample without its bytes.
type AudioFileInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int    `json:"size_bytes"`
	Format    string `json:"format"`
}

type Metadata struct {
	TotalRecordings     int    `json:"total_recordings"`
	HospitalizationDays []int  `json:"hospitalization_days"`
	ExportTimestamp     string `json:"export_timestamp"`
	DataFormatVersion   string `json:"data_format_version"`
}

// PatientData is the structured dataset handed to the analysis
// pipeline. Record sections are nested maps so the JSON shape follows
// the collaborator contract exactly.
type PatientData struct {
	PatientID     int64                               `json:"patient_id"`
	AdmissionData map[string]any                      `json:"admission_data"`
	DailyData     []map[string]any                    `json:"daily_data"`
	DischargeData map[string]any                      `json:"discharge_data"`
	AudioFiles    map[string]map[string]AudioFileInfo `json:"audio_files"`
	Metadata      Metadata                            `json:"metadata"`
}

// CohortData wraps every patient's dataset for the all-patients export.
type CohortData struct {
	ExportTimestamp string                  `json:"export_timestamp"`
	TotalPatients   int                     `json:"total_patients"`
	Patients        map[string]*PatientData `json:"patients"`
}

// BuildPatientData folds a patient's recordings, ordered by
// hospitalization day, into the export structure. Returns nil when the
// patient has no recordings.
func BuildPatientData(patientID int64, recs []*recording.Recording, now time.Time) *PatientData {
	if len(recs) == 0 {
		return nil
	}

	admissionDate := admissionDateOf(recs)
	data := &PatientData{
		PatientID:     patientID,
		AdmissionData: map[string]any{},
		DailyData:     []map[string]any{},
		DischargeData: map[string]any{},
		AudioFiles:    map[string]map[string]AudioFileInfo{},
		Metadata: Metadata{
			TotalRecordings:   len(recs),
			ExportTimestamp:   now.Format(time.RFC3339),
			DataFormatVersion: dataFormatVersion,
		},
	}

	for _, rec := range recs {
		data.Metadata.HospitalizationDays = append(data.Metadata.HospitalizationDays, rec.HospitalizationDay)

		common := commonData(rec, admissionDate)
		switch rec.RecordingType {
		case recording.TypeAdmission:
			data.AdmissionData = merge(common, map[string]any{
				"demographics": map[string]any{
					"age":    rec.Age,
					"gender": rec.Gender,
					"height": rec.Height,
				},
				"clinical_data": map[string]any{
					"diagnosis":      rec.Diagnosis,
					"medication":     rec.Medication,
					"comorbidities":  rec.Comorbidities,
					"admission_date": isoDate(rec.AdmissionDate),
					"initial_weight": rec.InitialWeight,
					"initial_bp":     rec.InitialBP,
				},
				"lab_values": map[string]any{
					"ntprobnp":      rec.NTproBNP,
					"kalium":        rec.Kalium,
					"natrium":       rec.Natrium,
					"kreatinin_gfr": rec.KreatininGFR,
					"harnstoff":     rec.Harnstoff,
					"hb":            rec.Hb,
				},
				"kccq_scores": kccqScores(rec),
			})
		case recording.TypeDaily:
			data.DailyData = append(data.DailyData, merge(common, map[string]any{
				"vitals": map[string]any{
					"weight": rec.Weight,
					"bp":     rec.BP,
					"pulse":  rec.Pulse,
				},
				"treatment": map[string]any{
					"medication_changes": rec.MedicationChanges,
				},
				"lab_values": map[string]any{
					"kalium_daily":        rec.KaliumDaily,
					"natrium_daily":       rec.NatriumDaily,
					"kreatinin_gfr_daily": rec.KreatininGFRDaily,
					"harnstoff_daily":     rec.HarnstoffDaily,
					"hb_daily":            rec.HbDaily,
					"ntprobnp_daily":      rec.NTproBNPDaily,
				},
			}))
		case recording.TypeDischarge:
			data.DischargeData = merge(common, map[string]any{
				"clinical_data": map[string]any{
					"current_weight":       rec.CurrentWeight,
					"discharge_medication": rec.DischargeMedication,
					"discharge_date":       isoDate(rec.DischargeDate),
					"estimated_dryweight":  rec.EstimatedDryweight,
					"abschluss_labor":      rec.AbschlussLabor,
				},
				"lab_values": map[string]any{
					"ntprobnp":      rec.DischargeNTproBNP,
					"kalium":        rec.DischargeKalium,
					"natrium":       rec.DischargeNatrium,
					"kreatinin_gfr": rec.DischargeKreatininGFR,
					"harnstoff":     rec.DischargeHarnstoff,
					"hb":            rec.DischargeHb,
				},
				"kccq_scores": kccqScores(rec),
			})
		}

		key := audioKey(rec)
		data.AudioFiles[key] = map[string]AudioFileInfo{}
		for _, slot := range []string{recording.SampleStandardized, recording.SampleStorytelling, recording.SampleVocal} {
			sample, _ := rec.VoiceSample(slot)
			if sample == nil {
				continue
			}
			format := audio.Detect(sample)
			data.AudioFiles[key][slot] = AudioFileInfo{
				Filename:  fmt.Sprintf("patient_%d_%s_%s.%s", patientID, key, slot, format.Ext()),
				SizeBytes: len(sample),
				Format:    string(format),
			}
		}
	}
	return data
}

func audioKey(rec *recording.Recording) string {
	return fmt.Sprintf("%s_day_%d", rec.RecordingType, rec.HospitalizationDay)
}

// admissionDateOf finds the admission date among a patient's records.
func admissionDateOf(recs []*recording.Recording) *time.Time {
	for _, rec := range recs {
		if rec.RecordingType == recording.TypeAdmission && rec.AdmissionDate != nil {
			return rec.AdmissionDate
		}
	}
	return nil
}

func commonData(rec *recording.Recording, admissionDate *time.Time) map[string]any {
	return map[string]any{
		"recording_id":        rec.ID,
		"hospitalization_day": rec.HospitalizationDay,
		"date":                recording.FormattedCalculatedDate(rec, admissionDate),
		"kccq_total_score":    rec.Score,
		"voice_samples_available": map[string]bool{
			recording.SampleStandardized: rec.VoiceSampleStandardized != nil,
			recording.SampleStorytelling: rec.VoiceSampleStorytelling != nil,
			recording.SampleVocal:        rec.VoiceSampleVocal != nil,
		},
	}
}

func kccqScores(rec *recording.Recording) map[string]any {
	return map[string]any{
		"physical_limitation": map[string]any{
			"kccq1a": rec.KCCQ1a, "kccq1b": rec.KCCQ1b,
			"kccq1c": rec.KCCQ1c, "kccq1d": rec.KCCQ1d,
			"kccq1e": rec.KCCQ1e, "kccq1f": rec.KCCQ1f,
		},
		"symptom_stability": map[string]any{"kccq2": rec.KCCQ2},
		"symptom_frequency": map[string]any{
			"kccq3": rec.KCCQ3, "kccq4": rec.KCCQ4,
			"kccq5": rec.KCCQ5, "kccq6": rec.KCCQ6,
			"kccq7": rec.KCCQ7, "kccq8": rec.KCCQ8,
		},
		"symptom_burden": map[string]any{
			"kccq9": rec.KCCQ9, "kccq10": rec.KCCQ10,
			"kccq11": rec.KCCQ11, "kccq12": rec.KCCQ12,
		},
		"self_efficacy": map[string]any{"kccq13": rec.KCCQ13, "kccq14": rec.KCCQ14},
		"quality_of_life": map[string]any{
			"kccq15a": rec.KCCQ15a, "kccq15b": rec.KCCQ15b,
			"kccq15c": rec.KCCQ15c, "kccq15d": rec.KCCQ15d,
		},
		"social_limitation": map[string]any{"kccq16": rec.KCCQ16},
	}
}

func isoDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
