package patient

// Patient is a study participant. The id is assigned externally (the study
// pseudonym number) and is the only attribute; a patient exists exactly as
// long as at least one recording references it.
type Patient struct {
	ID int64 `db:"id" json:"id"`
}
