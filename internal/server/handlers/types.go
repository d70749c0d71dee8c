package handlers

import (
	"errors"
	"net/http"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/logger"
	"hyphema-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services the HTTP layer dispatches to. It depends on
// the domain interfaces, not the concrete services, so tests can substitute
// stubs.
type Handler struct {
	patientSvc  domain.PatientService
	injurySvc   domain.InjuryService
	analysisSvc domain.AnalysisService
	photos      *storage.PhotoStore
}

// New creates the handler set
func New(patientSvc domain.PatientService, injurySvc domain.InjuryService, analysisSvc domain.AnalysisService, photos *storage.PhotoStore) *Handler {
	return &Handler{
		patientSvc:  patientSvc,
		injurySvc:   injurySvc,
		analysisSvc: analysisSvc,
		photos:      photos,
	}
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type RegisterPatientRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdatePatientRequest struct {
	Login string `json:"login" binding:"required"`
}

type CreateInjuryRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required"`
}

// SaveResultRequest is the confirm-step payload. Side and date arrive as
// raw tokens and are validated by the analysis service.
type SaveResultRequest struct {
	InjuryID   uint   `json:"injuryId" binding:"required"`
	Eye        string `json:"eye" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Percentage *int   `json:"percentageOfEyeAffectedByHyphema" binding:"required"`
}

// respondError converts a pipeline error into its HTTP reply.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if status >= 500 {
			logger.Error("Request failed", appErr.LogFields()...)
		} else {
			logger.Warn("Request rejected", appErr.LogFields()...)
		}
		c.AbortWithStatusJSON(status, ErrorResponse{
			Error:   string(appErr.Type),
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	logger.Error("Request failed", "error", err.Error())
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   string(apperrors.ErrorTypeInternal),
		Message: "internal server error",
	})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   string(apperrors.ErrorTypeValidation),
		Message: err.Error(),
	})
}
