package recording

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// writeCols lists every column except the generated id, in table order.
// insertSQL and updateSQL are derived from it once so the column list,
// placeholder list, and scan order can never drift apart.
var writeCols = []string{
	"patient_id", "recording_type", "hospitalization_day", "date",

	"age", "gender", "height", "diagnosis", "medication", "comorbidities",
	"admission_date", "ntprobnp", "kalium", "natrium", "kreatinin_gfr",
	"harnstoff", "hb", "initial_weight", "initial_bp",

	"weight", "bp", "pulse", "medication_changes", "ntprobnp_daily",
	"kalium_daily", "natrium_daily", "kreatinin_gfr_daily",
	"harnstoff_daily", "hb_daily",

	"current_weight", "discharge_medication", "discharge_date",
	"estimated_dryweight", "abschluss_labor", "discharge_ntprobnp",
	"discharge_kalium", "discharge_natrium", "discharge_kreatinin_gfr",
	"discharge_harnstoff", "discharge_hb",

	"kccq1a", "kccq1b", "kccq1c", "kccq1d", "kccq1e", "kccq1f",
	"kccq2", "kccq3", "kccq4", "kccq5", "kccq6", "kccq7",
	"kccq8", "kccq9", "kccq10", "kccq11", "kccq12", "kccq13",
	"kccq14", "kccq15a", "kccq15b", "kccq15c", "kccq15d", "kccq16",
	"score",

	"voice_sample_standardized", "voice_sample_storytelling", "voice_sample_vocal",
}

var (
	selectCols = "id, " + strings.Join(writeCols, ", ")
	insertSQL  = buildInsertSQL()
	updateSQL  = buildUpdateSQL()
)

func buildInsertSQL() string {
	placeholders := make([]string, len(writeCols))
	for i := range writeCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO recordings (%s) VALUES (%s) RETURNING id",
		strings.Join(writeCols, ", "), strings.Join(placeholders, ", "))
}

func buildUpdateSQL() string {
	assignments := make([]string, len(writeCols))
	for i, col := range writeCols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	return fmt.Sprintf(
		"UPDATE recordings SET %s WHERE id = $%d",
		strings.Join(assignments, ", "), len(writeCols)+1)
}

// writeFields returns the struct fields matching writeCols, in order.
func writeFields(r *Recording) []any {
	return []any{
		r.PatientID, r.RecordingType, r.HospitalizationDay, r.Date,

		r.Age, r.Gender, r.Height, r.Diagnosis, r.Medication, r.Comorbidities,
		r.AdmissionDate, r.NTproBNP, r.Kalium, r.Natrium, r.KreatininGFR,
		r.Harnstoff, r.Hb, r.InitialWeight, r.InitialBP,

		r.Weight, r.BP, r.Pulse, r.MedicationChanges, r.NTproBNPDaily,
		r.KaliumDaily, r.NatriumDaily, r.KreatininGFRDaily,
		r.HarnstoffDaily, r.HbDaily,

		r.CurrentWeight, r.DischargeMedication, r.DischargeDate,
		r.EstimatedDryweight, r.AbschlussLabor, r.DischargeNTproBNP,
		r.DischargeKalium, r.DischargeNatrium, r.DischargeKreatininGFR,
		r.DischargeHarnstoff, r.DischargeHb,

		r.KCCQ1a, r.KCCQ1b, r.KCCQ1c, r.KCCQ1d, r.KCCQ1e, r.KCCQ1f,
		r.KCCQ2, r.KCCQ3, r.KCCQ4, r.KCCQ5, r.KCCQ6, r.KCCQ7,
		r.KCCQ8, r.KCCQ9, r.KCCQ10, r.KCCQ11, r.KCCQ12, r.KCCQ13,
		r.KCCQ14, r.KCCQ15a, r.KCCQ15b, r.KCCQ15c, r.KCCQ15d, r.KCCQ16,
		r.Score,

		r.VoiceSampleStandardized, r.VoiceSampleStorytelling, r.VoiceSampleVocal,
	}
}

// scanFields returns scan targets matching selectCols, in order.
func scanFields(r *Recording) []any {
	return []any{
		&r.ID,
		&r.PatientID, &r.RecordingType, &r.HospitalizationDay, &r.Date,

		&r.Age, &r.Gender, &r.Height, &r.Diagnosis, &r.Medication, &r.Comorbidities,
		&r.AdmissionDate, &r.NTproBNP, &r.Kalium, &r.Natrium, &r.KreatininGFR,
		&r.Harnstoff, &r.Hb, &r.InitialWeight, &r.InitialBP,

		&r.Weight, &r.BP, &r.Pulse, &r.MedicationChanges, &r.NTproBNPDaily,
		&r.KaliumDaily, &r.NatriumDaily, &r.KreatininGFRDaily,
		&r.HarnstoffDaily, &r.HbDaily,

		&r.CurrentWeight, &r.DischargeMedication, &r.DischargeDate,
		&r.EstimatedDryweight, &r.AbschlussLabor, &r.DischargeNTproBNP,
		&r.DischargeKalium, &r.DischargeNatrium, &r.DischargeKreatininGFR,
		&r.DischargeHarnstoff, &r.DischargeHb,

		&r.KCCQ1a, &r.KCCQ1b, &r.KCCQ1c, &r.KCCQ1d, &r.KCCQ1e, &r.KCCQ1f,
		&r.KCCQ2, &r.KCCQ3, &r.KCCQ4, &r.KCCQ5, &r.KCCQ6, &r.KCCQ7,
		&r.KCCQ8, &r.KCCQ9, &r.KCCQ10, &r.KCCQ11, &r.KCCQ12, &r.KCCQ13,
		&r.KCCQ14, &r.KCCQ15a, &r.KCCQ15b, &r.KCCQ15c, &r.KCCQ15d, &r.KCCQ16,
		&r.Score,

		&r.VoiceSampleStandardized, &r.VoiceSampleStorytelling, &r.VoiceSampleVocal,
	}
}

type recordingRepoPG struct{ pool *pgxpool.Pool }

func NewRecordingRepoPG(pool *pgxpool.Pool) Repository {
	return &recordingRepoPG{pool: pool}
}

func (repo *recordingRepoPG) Create(ctx context.Context, r *Recording) error {
	return repo.pool.QueryRow(ctx, insertSQL, writeFields(r)...).Scan(&r.ID)
}

func (repo *recordingRepoPG) GetByID(ctx context.Context, id int64) (*Recording, error) {
	var r Recording
	err := repo.pool.QueryRow(ctx,
		"SELECT "+selectCols+" FROM recordings WHERE id = $1", id).
		Scan(scanFields(&r)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *recordingRepoPG) Update(ctx context.Context, r *Recording) error {
	args := append(writeFields(r), r.ID)
	tag, err := repo.pool.Exec(ctx, updateSQL, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *recordingRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := repo.pool.Exec(ctx, `DELETE FROM recordings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *recordingRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Recording, error) {
	rows, err := repo.pool.Query(ctx,
		"SELECT "+selectCols+" FROM recordings WHERE patient_id = $1 ORDER BY hospitalization_day, date",
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (repo *recordingRepoPG) GetByPatientAndType(ctx context.Context, patientID int64, recordingType string) (*Recording, error) {
	var r Recording
	err := repo.pool.QueryRow(ctx,
		"SELECT "+selectCols+" FROM recordings WHERE patient_id = $1 AND recording_type = $2 ORDER BY id DESC LIMIT 1",
		patientID, recordingType).
		Scan(scanFields(&r)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *recordingRepoPG) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	var count int
	err := repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM recordings WHERE patient_id = $1`, patientID).Scan(&count)
	return count, err
}

func (repo *recordingRepoPG) ListAll(ctx context.Context) ([]*Recording, error) {
	rows, err := repo.pool.Query(ctx,
		"SELECT "+selectCols+" FROM recordings ORDER BY patient_id, hospitalization_day, date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Recording, error) {
	var items []*Recording
	for rows.Next() {
		var r Recording
		if err := rows.Scan(scanFields(&r)...); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}
