package recording

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hfvoice/hfvoice/internal/platform/audio"
	"github.com/hfvoice/hfvoice/internal/platform/metrics"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Metrics
}

func NewHandler(svc *Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/recordings", h.Submit)
	api.GET("/recordings/:id", h.Get)
	api.PUT("/recordings/:id", h.Edit)
	api.DELETE("/recordings/:id", h.Delete)
	api.GET("/recordings/:id/voice/:sample", h.StreamVoiceSample)
	api.DELETE("/recordings/:id/voice/:sample", h.DeleteVoiceSample)
	api.GET("/patients/:id/recordings", h.ListByPatient)
	api.GET("/patients/:id/prefill", h.Prefill)
	api.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Submit(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.FormValue("patient_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id must be an integer")
	}
	recordingType := c.FormValue("recording_type")
	if !ValidType(recordingType) {
		return echo.NewHTTPError(http.StatusBadRequest, "recording_type must be admission, daily, or discharge")
	}

	sub := Submission{
		PatientID:     patientID,
		RecordingType: recordingType,
		SubmittedDay:  formInt(c, "hospitalization_day"),
		Fields:        parseFields(c),
		Samples:       parseSamples(c, recordingType),
	}
	scrubForType(&sub.Fields, recordingType)

	rec, err := h.svc.Submit(c.Request().Context(), sub)
	if err != nil {
		if errors.Is(err, ErrInvalidType) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.metrics.RecordingsWritten.Inc()
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := recordingID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Edit(c echo.Context) error {
	id, err := recordingID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return translate(err)
	}

	fields := parseFields(c)
	if rec.RecordingType != TypeDischarge {
		clearDischargeLabs(&fields)
	}
	samples := parseSamples(c, rec.RecordingType)

	updated, err := h.svc.Edit(c.Request().Context(), id, fields, samples)
	if err != nil {
		return translate(err)
	}
	h.metrics.RecordingsWritten.Inc()
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := recordingID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return translate(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) StreamVoiceSample(c echo.Context) error {
	id, err := recordingID(c)
	if err != nil {
		return err
	}
	slot := c.Param("sample")
	data, err := h.svc.VoiceSample(c.Request().Context(), id, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "voice sample not found")
		}
		return translate(err)
	}

	format := audio.Detect(data)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename="recording_%d_%s.%s"`, id, slot, format.Ext()))
	return c.Blob(http.StatusOK, format.MIMEType(), data)
}

func (h *Handler) DeleteVoiceSample(c echo.Context) error {
	id, err := recordingID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteVoiceSample(c.Request().Context(), id, c.Param("sample")); err != nil {
		return translate(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient id must be an integer")
	}
	recs, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"patient_id": patientID,
		"recordings": recs,
	})
}

func (h *Handler) Prefill(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient id must be an integer")
	}
	pre, err := h.svc.Prefill(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pre)
}

func (h *Handler) Dashboard(c echo.Context) error {
	boards, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"patients": boards})
}

func recordingID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "recording id must be an integer")
	}
	return id, nil
}

func translate(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "recording not found")
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// formPtr treats an absent or blank form value as nil.
func formPtr(c echo.Context, name string) *string {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}

// formDate parses a YYYY-MM-DD form value; malformed values coerce to
// nil like every other optional field.
func formDate(c echo.Context, name string) *time.Time {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}

func formInt(c echo.Context, name string) *int {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// formMulti joins a multi-select form field with ", ".
func formMulti(c echo.Context, name string) *string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	values := params[name]
	if len(values) == 0 {
		return nil
	}
	joined := strings.Join(values, ", ")
	if joined == "" {
		return nil
	}
	return &joined
}

// parseFields reads every clinical form field. The caller scrubs the
// groups that do not apply to the recording type.
func parseFields(c echo.Context) Recording {
	return Recording{
		Age:           formPtr(c, "age"),
		Gender:        formPtr(c, "gender"),
		Height:        formPtr(c, "height"),
		Diagnosis:     formMulti(c, "diagnosis"),
		Medication:    formPtr(c, "medication"),
		Comorbidities: formPtr(c, "comorbidities"),
		AdmissionDate: formDate(c, "admission_date"),
		NTproBNP:      formPtr(c, "ntprobnp"),
		Kalium:        formPtr(c, "kalium"),
		Natrium:       formPtr(c, "natrium"),
		KreatininGFR:  formPtr(c, "kreatinin_gfr"),
		Harnstoff:     formPtr(c, "harnstoff"),
		Hb:            formPtr(c, "hb"),
		InitialWeight: formPtr(c, "initial_weight"),
		InitialBP:     formPtr(c, "initial_bp"),

		Weight:            formPtr(c, "weight"),
		BP:                formPtr(c, "bp"),
		Pulse:             formPtr(c, "pulse"),
		MedicationChanges: formPtr(c, "medication_changes"),
		NTproBNPDaily:     formPtr(c, "ntprobnp_daily"),
		KaliumDaily:       formPtr(c, "kalium_daily"),
		NatriumDaily:      formPtr(c, "natrium_daily"),
		KreatininGFRDaily: formPtr(c, "kreatinin_gfr_daily"),
		HarnstoffDaily:    formPtr(c, "harnstoff_daily"),
		HbDaily:           formPtr(c, "hb_daily"),

		CurrentWeight:         formPtr(c, "current_weight"),
		DischargeMedication:   formPtr(c, "discharge_medication"),
		DischargeDate:         formDate(c, "discharge_date"),
		EstimatedDryweight:    formPtr(c, "estimated_dryweight"),
		AbschlussLabor:        formPtr(c, "abschluss_labor"),
		DischargeNTproBNP:     formPtr(c, "discharge_ntprobnp"),
		DischargeKalium:       formPtr(c, "discharge_kalium"),
		DischargeNatrium:      formPtr(c, "discharge_natrium"),
		DischargeKreatininGFR: formPtr(c, "discharge_kreatinin_gfr"),
		DischargeHarnstoff:    formPtr(c, "discharge_harnstoff"),
		DischargeHb:           formPtr(c, "discharge_hb"),

		KCCQ1a:  formPtr(c, "kccq1a"),
		KCCQ1b:  formPtr(c, "kccq1b"),
		KCCQ1c:  formPtr(c, "kccq1c"),
		KCCQ1d:  formPtr(c, "kccq1d"),
		KCCQ1e:  formPtr(c, "kccq1e"),
		KCCQ1f:  formPtr(c, "kccq1f"),
		KCCQ2:   formPtr(c, "kccq2"),
		KCCQ3:   formPtr(c, "kccq3"),
		KCCQ4:   formPtr(c, "kccq4"),
		KCCQ5:   formPtr(c, "kccq5"),
		KCCQ6:   formPtr(c, "kccq6"),
		KCCQ7:   formPtr(c, "kccq7"),
		KCCQ8:   formPtr(c, "kccq8"),
		KCCQ9:   formPtr(c, "kccq9"),
		KCCQ10:  formPtr(c, "kccq10"),
		KCCQ11:  formPtr(c, "kccq11"),
		KCCQ12:  formPtr(c, "kccq12"),
		KCCQ13:  formPtr(c, "kccq13"),
		KCCQ14:  formPtr(c, "kccq14"),
		KCCQ15a: formPtr(c, "kccq15a"),
		KCCQ15b: formPtr(c, "kccq15b"),
		KCCQ15c: formPtr(c, "kccq15c"),
		KCCQ15d: formPtr(c, "kccq15d"),
		KCCQ16:  formPtr(c, "kccq16"),
	}
}

// parseSamples reads the voice uploads for the recording type. File
// keys are prefixed with the type, matching the capture form. Empty
// uploads are dropped so existing slot bytes survive a resubmission.
func parseSamples(c echo.Context, recordingType string) map[string][]byte {
	samples := map[string][]byte{}
	for _, slot := range []string{SampleStandardized, SampleStorytelling, SampleVocal} {
		key := fmt.Sprintf("%s_voice_sample_%s", recordingType, slot)
		fh, err := c.FormFile(key)
		if err != nil || fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		samples[slot] = data
	}
	return samples
}

// scrubForType drops the field groups the capture form never sends for
// the given recording type.
func scrubForType(f *Recording, recordingType string) {
	if recordingType != TypeAdmission {
		f.AdmissionDate = nil
	}
	if recordingType != TypeDischarge {
		f.DischargeDate = nil
		clearDischargeLabs(f)
	}
	if recordingType == TypeDaily {
		clearQuestionnaire(f)
	}
}

func clearDischargeLabs(f *Recording) {
	f.DischargeNTproBNP = nil
	f.DischargeKalium = nil
	f.DischargeNatrium = nil
	f.DischargeKreatininGFR = nil
	f.DischargeHarnstoff = nil
	f.DischargeHb = nil
}

func clearQuestionnaire(f *Recording) {
	for _, item := range []**string{
		&f.KCCQ1a, &f.KCCQ1b, &f.KCCQ1c, &f.KCCQ1d, &f.KCCQ1e, &f.KCCQ1f,
		&f.KCCQ2, &f.KCCQ3, &f.KCCQ4, &f.KCCQ5, &f.KCCQ6, &f.KCCQ7,
		&f.KCCQ8, &f.KCCQ9, &f.KCCQ10, &f.KCCQ11, &f.KCCQ12, &f.KCCQ13,
		&f.KCCQ14, &f.KCCQ15a, &f.KCCQ15b, &f.KCCQ15c, &f.KCCQ15d, &f.KCCQ16,
	} {
		*item = nil
	}
}
