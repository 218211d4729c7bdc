package recording

// A record is clinically complete when every field required for its
// recording type is populated. "Populated" means not absent, not an empty
// string, and not the numeral zero. The classification is a pure projection
// over the current field values; it is recomputed on every listing and
// never cached.

type fieldCheck func(*Recording) bool

func str(get func(*Recording) *string) fieldCheck {
	return func(r *Recording) bool {
		v := get(r)
		return v != nil && *v != "" && *v != "0"
	}
}

var (
	checkType = func(r *Recording) bool { return r.RecordingType != "" }
	checkDay  = func(r *Recording) bool { return r.HospitalizationDay != 0 }
	checkVoice = func(r *Recording) bool {
		return r.VoiceSampleStandardized != nil
	}
	checkAdmissionDate = func(r *Recording) bool { return r.AdmissionDate != nil }
	checkDischargeDate = func(r *Recording) bool { return r.DischargeDate != nil }
)

func kccqChecks() []fieldCheck {
	return []fieldCheck{
		str(func(r *Recording) *string { return r.KCCQ1a }),
		str(func(r *Recording) *string { return r.KCCQ1b }),
		str(func(r *Recording) *string { return r.KCCQ1c }),
		str(func(r *Recording) *string { return r.KCCQ1d }),
		str(func(r *Recording) *string { return r.KCCQ1e }),
		str(func(r *Recording) *string { return r.KCCQ1f }),
		str(func(r *Recording) *string { return r.KCCQ2 }),
		str(func(r *Recording) *string { return r.KCCQ3 }),
		str(func(r *Recording) *string { return r.KCCQ4 }),
		str(func(r *Recording) *string { return r.KCCQ5 }),
		str(func(r *Recording) *string { return r.KCCQ6 }),
		str(func(r *Recording) *string { return r.KCCQ7 }),
		str(func(r *Recording) *string { return r.KCCQ8 }),
		str(func(r *Recording) *string { return r.KCCQ9 }),
		str(func(r *Recording) *string { return r.KCCQ10 }),
		str(func(r *Recording) *string { return r.KCCQ11 }),
		str(func(r *Recording) *string { return r.KCCQ12 }),
		str(func(r *Recording) *string { return r.KCCQ13 }),
		str(func(r *Recording) *string { return r.KCCQ14 }),
		str(func(r *Recording) *string { return r.KCCQ15a }),
		str(func(r *Recording) *string { return r.KCCQ15b }),
		str(func(r *Recording) *string { return r.KCCQ15c }),
		str(func(r *Recording) *string { return r.KCCQ15d }),
		str(func(r *Recording) *string { return r.KCCQ16 }),
	}
}

func admissionChecks() []fieldCheck {
	checks := []fieldCheck{
		checkType, checkDay,
		str(func(r *Recording) *string { return r.Age }),
		str(func(r *Recording) *string { return r.Gender }),
		str(func(r *Recording) *string { return r.Height }),
		str(func(r *Recording) *string { return r.Diagnosis }),
		str(func(r *Recording) *string { return r.Medication }),
		str(func(r *Recording) *string { return r.Comorbidities }),
		checkAdmissionDate,
		str(func(r *Recording) *string { return r.NTproBNP }),
		str(func(r *Recording) *string { return r.Kalium }),
		str(func(r *Recording) *string { return r.Natrium }),
		str(func(r *Recording) *string { return r.KreatininGFR }),
		str(func(r *Recording) *string { return r.Harnstoff }),
		str(func(r *Recording) *string { return r.Hb }),
		str(func(r *Recording) *string { return r.InitialWeight }),
		str(func(r *Recording) *string { return r.InitialBP }),
		checkVoice,
	}
	return append(checks, kccqChecks()...)
}

func dailyChecks() []fieldCheck {
	return []fieldCheck{
		checkType, checkDay,
		str(func(r *Recording) *string { return r.Weight }),
		str(func(r *Recording) *string { return r.BP }),
		str(func(r *Recording) *string { return r.Pulse }),
		checkVoice,
		str(func(r *Recording) *string { return r.MedicationChanges }),
		str(func(r *Recording) *string { return r.KaliumDaily }),
		str(func(r *Recording) *string { return r.NatriumDaily }),
		str(func(r *Recording) *string { return r.KreatininGFRDaily }),
		str(func(r *Recording) *string { return r.HarnstoffDaily }),
		str(func(r *Recording) *string { return r.HbDaily }),
		str(func(r *Recording) *string { return r.NTproBNPDaily }),
	}
}

func dischargeChecks() []fieldCheck {
	checks := []fieldCheck{
		checkType, checkDay,
		str(func(r *Recording) *string { return r.DischargeNTproBNP }),
		str(func(r *Recording) *string { return r.DischargeKalium }),
		str(func(r *Recording) *string { return r.DischargeNatrium }),
		str(func(r *Recording) *string { return r.DischargeKreatininGFR }),
		str(func(r *Recording) *string { return r.DischargeHarnstoff }),
		str(func(r *Recording) *string { return r.DischargeHb }),
		str(func(r *Recording) *string { return r.CurrentWeight }),
		str(func(r *Recording) *string { return r.DischargeMedication }),
		checkDischargeDate,
		checkVoice,
	}
	return append(checks, kccqChecks()...)
}

// minimalChecks is the fallback required set for an unrecognized type.
func minimalChecks() []fieldCheck {
	return []fieldCheck{checkType, checkDay, checkVoice}
}

var requiredByType = map[string][]fieldCheck{
	TypeAdmission: admissionChecks(),
	TypeDaily:     dailyChecks(),
	TypeDischarge: dischargeChecks(),
}

// IsComplete reports whether every field required for the recording's type
// is populated.
func IsComplete(r *Recording) bool {
	checks, ok := requiredByType[r.RecordingType]
	if !ok {
		checks = minimalChecks()
	}
	for _, check := range checks {
		if !check(r) {
			return false
		}
	}
	return true
}
