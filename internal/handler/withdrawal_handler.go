package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/service"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
	"github.com/jorellortega/covionpartners-sub003/prometheus"
)

var withdrawalService *service.WithdrawalService

// InitWithdrawalHandler wires the withdrawal service into the handler
// package.
func InitWithdrawalHandler(svc *service.WithdrawalService) {
	withdrawalService = svc
}

// CreateWithdrawal records a new pending withdrawal request against a
// report's profit share.
func CreateWithdrawal(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		ReportID            uint   `json:"report_id"`
		PartnerInvitationID uint   `json:"partner_invitation_id"`
		Amount              string `json:"amount"`
		Notes               string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse withdrawal creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ReportID == 0 || req.PartnerInvitationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "report_id and partner_invitation_id are required"})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}

	wr, err := withdrawalService.Create(c.Request().Context(), organizationID(c), req.ReportID, req.PartnerInvitationID, amount, req.Notes)
	if err != nil {
		prometheus.RecordWithdrawalTransition("create", "error")
		return writeError(c, err)
	}
	prometheus.RecordWithdrawalTransition("create", "ok")

	return c.JSON(http.StatusCreated, wr)
}

// ApproveWithdrawal moves a pending request to approved.
func ApproveWithdrawal(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request ID"})
	}

	wr, err := withdrawalService.Approve(c.Request().Context(), organizationID(c), uint(id))
	if err != nil {
		prometheus.RecordWithdrawalTransition("approve", "error")
		return writeError(c, err)
	}
	prometheus.RecordWithdrawalTransition("approve", "ok")

	return c.JSON(http.StatusOK, wr)
}

// RejectWithdrawal moves a pending or approved request to rejected.
func RejectWithdrawal(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	wr, err := withdrawalService.Reject(c.Request().Context(), organizationID(c), uint(id), req.Reason)
	if err != nil {
		prometheus.RecordWithdrawalTransition("reject", "error")
		return writeError(c, err)
	}
	prometheus.RecordWithdrawalTransition("reject", "ok")

	return c.JSON(http.StatusOK, wr)
}

// ProcessWithdrawal executes an approved request through the transfer
// provider.
func ProcessWithdrawal(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request ID"})
	}

	wr, err := withdrawalService.Process(c.Request().Context(), organizationID(c), uint(id))
	if err != nil {
		prometheus.RecordWithdrawalTransition("process", "error")
		switch apperr.KindOf(err) {
		case apperr.KindTransferDeclined:
			prometheus.TransferCounter.WithLabelValues("declined").Inc()
		case apperr.KindUpstreamUnavailable:
			prometheus.TransferCounter.WithLabelValues("unavailable").Inc()
		}
		return writeError(c, err)
	}
	prometheus.RecordWithdrawalTransition("process", "ok")
	prometheus.TransferCounter.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, wr)
}

// ListWithdrawals returns the organization's withdrawal requests,
// optionally filtered by partner invitation.
func ListWithdrawals(c echo.Context) error {
	var partnerInvitationID uint
	if raw := c.QueryParam("partner_invitation_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid partner_invitation_id"})
		}
		partnerInvitationID = uint(id)
	}

	wrs, err := withdrawalService.List(c.Request().Context(), organizationID(c), partnerInvitationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, wrs)
}
