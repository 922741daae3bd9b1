package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/service"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
	"github.com/jorellortega/covionpartners-sub003/prometheus"
)

var reportService *service.ReportService

// InitReportHandler wires the report service into the handler package.
func InitReportHandler(svc *service.ReportService) {
	reportService = svc
}

// GenerateReport handles monthly report generation for one partner.
func GenerateReport(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		PartnerInvitationID uint   `json:"partner_invitation_id"`
		Month               string `json:"month"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse report generation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PartnerInvitationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "partner_invitation_id is required"})
	}

	month, err := ledger.ParseMonth(req.Month)
	if err != nil {
		prometheus.RecordReportGeneration("error")
		return writeError(c, err)
	}

	defer prometheus.TrackDBOperation("generate_report")(time.Now())

	rep, err := reportService.Generate(c.Request().Context(), organizationID(c), req.PartnerInvitationID, month, userID(c))
	if err != nil {
		prometheus.RecordReportGeneration("error")
		return writeError(c, err)
	}
	prometheus.RecordReportGeneration("ok")

	log.Info("Report generation handled",
		zap.Uint("report_id", rep.ID),
		zap.String("month", month.String()))

	return c.JSON(http.StatusOK, rep)
}

// SendReport marks a report as sent and notifies the partner.
func SendReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report ID"})
	}

	rep, err := reportService.Send(c.Request().Context(), organizationID(c), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	prometheus.ReportSendCounter.Inc()

	return c.JSON(http.StatusOK, rep)
}

// ListReports returns the organization's reports, optionally filtered
// by partner invitation.
func ListReports(c echo.Context) error {
	var partnerInvitationID uint
	if raw := c.QueryParam("partner_invitation_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid partner_invitation_id"})
		}
		partnerInvitationID = uint(id)
	}

	reps, err := reportService.List(c.Request().Context(), organizationID(c), partnerInvitationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reps)
}
