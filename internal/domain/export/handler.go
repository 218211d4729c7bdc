package export

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hfvoice/hfvoice/internal/platform/metrics"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Metrics
}

func NewHandler(svc *Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// RegisterRoutes mounts the export endpoints on the admin-only group.
func (h *Handler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/export/patients", h.ExportCohort)
	admin.GET("/export/patients/:id", h.ExportPatient)
	admin.GET("/export/patients/:id/csv", h.ExportPatientCSV)
}

func (h *Handler) ExportPatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.svc.PatientArchive(c.Request().Context(), id, &buf); err != nil {
		return translate(err)
	}
	h.metrics.ExportsServed.WithLabelValues("zip").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=patient_%d_ai_dataset.zip`, id))
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *Handler) ExportCohort(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.CohortArchive(c.Request().Context(), &buf); err != nil {
		return translate(err)
	}
	h.metrics.ExportsServed.WithLabelValues("zip").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=all_patients_ai_dataset_%s.zip`,
			time.Now().Format("20060102_150405")))
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *Handler) ExportPatientCSV(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.svc.PatientCSV(c.Request().Context(), id, &buf); err != nil {
		return translate(err)
	}
	h.metrics.ExportsServed.WithLabelValues("csv").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=patient_%d_data.csv`, id))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func patientID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "patient id must be an integer")
	}
	return id, nil
}

func translate(err error) error {
	if errors.Is(err, ErrNoRecordings) || errors.Is(err, ErrNoPatients) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
