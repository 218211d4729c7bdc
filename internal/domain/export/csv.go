package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/hfvoice/hfvoice/internal/domain/recording"
)

var csvHeader = []string{
	"patient_id", "recording_id", "recording_type", "hospitalization_day", "date",
	"age", "gender", "height", "diagnosis", "medication", "comorbidities",
	"weight", "current_weight", "initial_weight", "bp", "initial_bp", "pulse",
	"ntprobnp", "kalium", "natrium", "kreatinin_gfr", "harnstoff", "hb",
	"ntprobnp_daily", "kalium_daily", "natrium_daily", "kreatinin_gfr_daily",
	"harnstoff_daily", "hb_daily", "medication_changes",
	"admission_date", "discharge_date", "discharge_medication", "estimated_dryweight", "abschluss_labor",
	"kccq_total_score", "kccq1a", "kccq1b", "kccq1c", "kccq1d", "kccq1e", "kccq1f",
	"kccq2", "kccq3", "kccq4", "kccq5", "kccq6", "kccq7", "kccq8", "kccq9",
	"kccq10", "kccq11", "kccq12", "kccq13", "kccq14", "kccq15a", "kccq15b",
	"kccq15c", "kccq15d", "kccq16", "has_audio_standardized", "has_audio_storytelling", "has_audio_vocal",
}

// WriteCSV flattens a patient's recordings into one row per record,
// ordered by hospitalization day. Audio bytes are replaced by presence
// booleans.
func WriteCSV(w io.Writer, recs []*recording.Recording) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	admissionDate := admissionDateOf(recs)
	for _, rec := range recs {
		row := []string{
			strconv.FormatInt(rec.PatientID, 10),
			strconv.FormatInt(rec.ID, 10),
			rec.RecordingType,
			strconv.Itoa(rec.HospitalizationDay),
			recording.FormattedCalculatedDate(rec, admissionDate),
			text(rec.Age), text(rec.Gender), text(rec.Height), text(rec.Diagnosis),
			text(rec.Medication), text(rec.Comorbidities),
			text(rec.Weight), text(rec.CurrentWeight), text(rec.InitialWeight),
			text(rec.BP), text(rec.InitialBP), text(rec.Pulse),
			text(rec.NTproBNP), text(rec.Kalium), text(rec.Natrium),
			text(rec.KreatininGFR), text(rec.Harnstoff), text(rec.Hb),
			text(rec.NTproBNPDaily), text(rec.KaliumDaily), text(rec.NatriumDaily),
			text(rec.KreatininGFRDaily), text(rec.HarnstoffDaily), text(rec.HbDaily),
			text(rec.MedicationChanges),
			date(rec.AdmissionDate), date(rec.DischargeDate),
			text(rec.DischargeMedication), text(rec.EstimatedDryweight), text(rec.AbschlussLabor),
			strconv.Itoa(rec.Score),
			text(rec.KCCQ1a), text(rec.KCCQ1b), text(rec.KCCQ1c), text(rec.KCCQ1d),
			text(rec.KCCQ1e), text(rec.KCCQ1f),
			text(rec.KCCQ2), text(rec.KCCQ3), text(rec.KCCQ4), text(rec.KCCQ5),
			text(rec.KCCQ6), text(rec.KCCQ7), text(rec.KCCQ8), text(rec.KCCQ9),
			text(rec.KCCQ10), text(rec.KCCQ11), text(rec.KCCQ12), text(rec.KCCQ13),
			text(rec.KCCQ14), text(rec.KCCQ15a), text(rec.KCCQ15b), text(rec.KCCQ15c),
			text(rec.KCCQ15d), text(rec.KCCQ16),
			strconv.FormatBool(rec.VoiceSampleStandardized != nil),
			strconv.FormatBool(rec.VoiceSampleStorytelling != nil),
			strconv.FormatBool(rec.VoiceSampleVocal != nil),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
