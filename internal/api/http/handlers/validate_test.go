package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

func closeRequestFixture() dto.CloseTicketRequest {
	now := time.Now()
	return dto.CloseTicketRequest{
		QuadrantID:      3,
		DispatchTime:    now.Add(-30 * time.Minute),
		ArrivalTime:     now.Add(-20 * time.Minute),
		FinishTime:      now,
		DispatchDetails: "unidad 12 enviada",
		ClosingState:    "Efectiva",
		ClosingDetails:  "resuelto en sitio",
	}
}

func TestCloseRequestValid(t *testing.T) {
	require.NoError(t, validateStruct(closeRequestFixture()))
}

func TestCloseRequestAcceptsNoEfectiva(t *testing.T) {
	req := closeRequestFixture()
	req.ClosingState = "No Efectiva"
	require.NoError(t, validateStruct(req))
}

func TestCloseRequestMissingArrivalTime(t *testing.T) {
	req := closeRequestFixture()
	req.ArrivalTime = time.Time{}

	err := validateStruct(req)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Message, "arrival_time")
	assert.Equal(t, "arrival_time", domainErr.Details["field"])
}

func TestCloseRequestRejectsEarlyTerminationState(t *testing.T) {
	req := closeRequestFixture()
	req.ClosingState = "Abandonada"

	err := validateStruct(req)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "closing_state", domainErr.Details["field"])
	assert.Equal(t, "oneof", domainErr.Details["rule"])
}
