package recording

import (
	"fmt"
	"time"
)

// Recording types. The type is chosen at creation and never changes.
const (
	TypeAdmission = "admission"
	TypeDaily     = "daily"
	TypeDischarge = "discharge"
)

// Voice-sample slot names. Each recording carries up to three independent
// audio blobs; absence (nil) is distinct from an empty buffer.
const (
	SampleStandardized = "standardized"
	SampleStorytelling = "storytelling"
	SampleVocal        = "vocal"
)

func ValidType(t string) bool {
	return t == TypeAdmission || t == TypeDaily || t == TypeDischarge
}

// Recording is one clinical data-capture event. Clinical form fields are
// nullable text: a partial submission stores what it has and the
// completeness classifier reports the rest. Only the fields matching the
// recording type are populated in practice, but the row carries all of
// them (one table, one entity, as the capture form does).
type Recording struct {
	ID                 int64     `db:"id" json:"id"`
	PatientID          int64     `db:"patient_id" json:"patient_id"`
	RecordingType      string    `db:"recording_type" json:"recording_type"`
	HospitalizationDay int       `db:"hospitalization_day" json:"hospitalization_day"`
	Date               time.Time `db:"date" json:"date"`

	// Admission
	Age           *string    `db:"age" json:"age,omitempty"`
	Gender        *string    `db:"gender" json:"gender,omitempty"`
	Height        *string    `db:"height" json:"height,omitempty"`
	Diagnosis     *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Medication    *string    `db:"medication" json:"medication,omitempty"`
	Comorbidities *string    `db:"comorbidities" json:"comorbidities,omitempty"`
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	NTproBNP      *string    `db:"ntprobnp" json:"ntprobnp,omitempty"`
	Kalium        *string    `db:"kalium" json:"kalium,omitempty"`
	Natrium       *string    `db:"natrium" json:"natrium,omitempty"`
	KreatininGFR  *string    `db:"kreatinin_gfr" json:"kreatinin_gfr,omitempty"`
	Harnstoff     *string    `db:"harnstoff" json:"harnstoff,omitempty"`
	Hb            *string    `db:"hb" json:"hb,omitempty"`
	InitialWeight *string    `db:"initial_weight" json:"initial_weight,omitempty"`
	InitialBP     *string    `db:"initial_bp" json:"initial_bp,omitempty"`

	// Daily
	Weight            *string `db:"weight" json:"weight,omitempty"`
	BP                *string `db:"bp" json:"bp,omitempty"`
	Pulse             *string `db:"pulse" json:"pulse,omitempty"`
	MedicationChanges *string `db:"medication_changes" json:"medication_changes,omitempty"`
	NTproBNPDaily     *string `db:"ntprobnp_daily" json:"ntprobnp_daily,omitempty"`
	KaliumDaily       *string `db:"kalium_daily" json:"kalium_daily,omitempty"`
	NatriumDaily      *string `db:"natrium_daily" json:"natrium_daily,omitempty"`
	KreatininGFRDaily *string `db:"kreatinin_gfr_daily" json:"kreatinin_gfr_daily,omitempty"`
	HarnstoffDaily    *string `db:"harnstoff_daily" json:"harnstoff_daily,omitempty"`
	HbDaily           *string `db:"hb_daily" json:"hb_daily,omitempty"`

	// Discharge. Discharge labs are stored separately from the admission
	// labs so that editing a discharge record never overwrites admission
	// values.
	CurrentWeight         *string    `db:"current_weight" json:"current_weight,omitempty"`
	DischargeMedication   *string    `db:"discharge_medication" json:"discharge_medication,omitempty"`
	DischargeDate         *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	EstimatedDryweight    *string    `db:"estimated_dryweight" json:"estimated_dryweight,omitempty"`
	AbschlussLabor        *string    `db:"abschluss_labor" json:"abschluss_labor,omitempty"`
	DischargeNTproBNP     *string    `db:"discharge_ntprobnp" json:"discharge_ntprobnp,omitempty"`
	DischargeKalium       *string    `db:"discharge_kalium" json:"discharge_kalium,omitempty"`
	DischargeNatrium      *string    `db:"discharge_natrium" json:"discharge_natrium,omitempty"`
	DischargeKreatininGFR *string    `db:"discharge_kreatinin_gfr" json:"discharge_kreatinin_gfr,omitempty"`
	DischargeHarnstoff    *string    `db:"discharge_harnstoff" json:"discharge_harnstoff,omitempty"`
	DischargeHb           *string    `db:"discharge_hb" json:"discharge_hb,omitempty"`

	// KCCQ questionnaire items
	KCCQ1a  *string `db:"kccq1a" json:"kccq1a,omitempty"`
	KCCQ1b  *string `db:"kccq1b" json:"kccq1b,omitempty"`
	KCCQ1c  *string `db:"kccq1c" json:"kccq1c,omitempty"`
	KCCQ1d  *string `db:"kccq1d" json:"kccq1d,omitempty"`
	KCCQ1e  *string `db:"kccq1e" json:"kccq1e,omitempty"`
	KCCQ1f  *string `db:"kccq1f" json:"kccq1f,omitempty"`
	KCCQ2   *string `db:"kccq2" json:"kccq2,omitempty"`
	KCCQ3   *string `db:"kccq3" json:"kccq3,omitempty"`
	KCCQ4   *string `db:"kccq4" json:"kccq4,omitempty"`
	KCCQ5   *string `db:"kccq5" json:"kccq5,omitempty"`
	KCCQ6   *string `db:"kccq6" json:"kccq6,omitempty"`
	KCCQ7   *string `db:"kccq7" json:"kccq7,omitempty"`
	KCCQ8   *string `db:"kccq8" json:"kccq8,omitempty"`
	KCCQ9   *string `db:"kccq9" json:"kccq9,omitempty"`
	KCCQ10  *string `db:"kccq10" json:"kccq10,omitempty"`
	KCCQ11  *string `db:"kccq11" json:"kccq11,omitempty"`
	KCCQ12  *string `db:"kccq12" json:"kccq12,omitempty"`
	KCCQ13  *string `db:"kccq13" json:"kccq13,omitempty"`
	KCCQ14  *string `db:"kccq14" json:"kccq14,omitempty"`
	KCCQ15a *string `db:"kccq15a" json:"kccq15a,omitempty"`
	KCCQ15b *string `db:"kccq15b" json:"kccq15b,omitempty"`
	KCCQ15c *string `db:"kccq15c" json:"kccq15c,omitempty"`
	KCCQ15d *string `db:"kccq15d" json:"kccq15d,omitempty"`
	KCCQ16  *string `db:"kccq16" json:"kccq16,omitempty"`
	Score   int     `db:"score" json:"score"`

	// Voice samples are served and exported through dedicated endpoints,
	// never inlined into JSON responses.
	VoiceSampleStandardized []byte `db:"voice_sample_standardized" json:"-"`
	VoiceSampleStorytelling []byte `db:"voice_sample_storytelling" json:"-"`
	VoiceSampleVocal        []byte `db:"voice_sample_vocal" json:"-"`
}

// KCCQItems returns the questionnaire item values in canonical order.
func (r *Recording) KCCQItems() []*string {
	return []*string{
		r.KCCQ1a, r.KCCQ1b, r.KCCQ1c, r.KCCQ1d, r.KCCQ1e, r.KCCQ1f,
		r.KCCQ2, r.KCCQ3, r.KCCQ4, r.KCCQ5, r.KCCQ6, r.KCCQ7, r.KCCQ8,
		r.KCCQ9, r.KCCQ10, r.KCCQ11, r.KCCQ12, r.KCCQ13, r.KCCQ14,
		r.KCCQ15a, r.KCCQ15b, r.KCCQ15c, r.KCCQ15d, r.KCCQ16,
	}
}

// VoiceSample returns the blob stored in the named slot.
func (r *Recording) VoiceSample(slot string) ([]byte, error) {
	switch slot {
	case SampleStandardized:
		return r.VoiceSampleStandardized, nil
	case SampleStorytelling:
		return r.VoiceSampleStorytelling, nil
	case SampleVocal:
		return r.VoiceSampleVocal, nil
	default:
		return nil, fmt.Errorf("invalid sample type: %s", slot)
	}
}

// SetVoiceSample stores a blob in the named slot.
func (r *Recording) SetVoiceSample(slot string, data []byte) error {
	switch slot {
	case SampleStandardized:
		r.VoiceSampleStandardized = data
	case SampleStorytelling:
		r.VoiceSampleStorytelling = data
	case SampleVocal:
		r.VoiceSampleVocal = data
	default:
		return fmt.Errorf("invalid sample type: %s", slot)
	}
	return nil
}
