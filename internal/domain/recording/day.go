package recording

import "time"

// ResolveDay computes the day-of-stay stored on a recording at write time.
//
// Admission records are always day 1. For discharge records an explicitly
// submitted day wins; otherwise the day is derived from the admission and
// discharge dates when both are known, falling back to the count of the
// patient's existing records plus one. Daily records take the count of
// existing records plus one (day 1 when the patient has none).
func ResolveDay(recordingType string, submittedDay *int, admissionDate, dischargeDate *time.Time, existingCount int) int {
	switch recordingType {
	case TypeAdmission:
		return 1
	case TypeDischarge:
		if submittedDay != nil {
			return *submittedDay
		}
		if admissionDate != nil && dischargeDate != nil {
			return daysBetween(*admissionDate, *dischargeDate) + 1
		}
		return existingCount + 1
	default: // daily
		if existingCount > 0 {
			return existingCount + 1
		}
		return 1
	}
}

// CalculatedDate derives the display/export date of a recording.
// Admission records show their admission date; daily and discharge records
// with a known day are placed relative to the patient's admission date.
// When no admission record (or date) exists the raw capture timestamp is
// used, so the derivation never fails.
func CalculatedDate(r *Recording, admissionDate *time.Time) time.Time {
	if r.RecordingType == TypeAdmission && r.AdmissionDate != nil {
		return *r.AdmissionDate
	}
	if r.RecordingType != TypeAdmission && r.HospitalizationDay > 0 && admissionDate != nil {
		return admissionDate.AddDate(0, 0, r.HospitalizationDay-1)
	}
	return r.Date
}

// FormattedCalculatedDate renders the derived date as YYYY-MM-DD, the form
// used in exports.
func FormattedCalculatedDate(r *Recording, admissionDate *time.Time) string {
	return CalculatedDate(r, admissionDate).Format("2006-01-02")
}

// daysBetween returns the number of whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
