package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
	"github.com/jorellortega/covionpartners-sub003/prometheus"
)

// writeError maps an engine error to a distinct HTTP status so the UI
// can tell "retry me" apart from "fix your input" apart from "contact
// support". The error kind also rides in the body.
func writeError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	prometheus.RecordError(kind.String())

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidTransition:
		status = http.StatusConflict
	case apperr.KindTransferDeclined:
		status = http.StatusUnprocessableEntity
	case apperr.KindUpstreamUnavailable:
		status = http.StatusBadGateway
	}

	log := logger.FromEcho(c)
	if status >= 500 {
		log.Error("Request failed", zap.String("kind", kind.String()), zap.Error(err))
		// Don't leak internals to the client.
		return c.JSON(status, echo.Map{"error": "internal error", "kind": kind.String()})
	}
	log.Warn("Request rejected", zap.String("kind", kind.String()), zap.Error(err))
	return c.JSON(status, echo.Map{"error": err.Error(), "kind": kind.String()})
}

// organizationID pulls the organization scope set by the auth
// middleware.
func organizationID(c echo.Context) uint {
	id, _ := c.Get("organization_id").(uint)
	return id
}

// userID pulls the authenticated user id set by the auth middleware.
func userID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}
