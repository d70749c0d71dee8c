package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateInjury records a new injury event for a patient
func (h *Handler) CreateInjury(c *gin.Context) {
	patientID, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	var req CreateInjuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	injury, err := h.injurySvc.AddToPatient(c.Request.Context(), patientID, req.Diagnosis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, injury)
}

// ListInjuries returns all injuries of a patient
func (h *Handler) ListInjuries(c *gin.Context) {
	patientID, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	injuries, err := h.injurySvc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, injuries)
}

// DeleteInjury removes an injury together with its measurements
func (h *Handler) DeleteInjury(c *gin.Context) {
	injuryID, ok := uintParam(c, "injuryId")
	if !ok {
		return
	}
	if err := h.injurySvc.Delete(c.Request.Context(), injuryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEyesForInjury returns every measurement recorded under an injury
func (h *Handler) ListEyesForInjury(c *gin.Context) {
	injuryID, ok := uintParam(c, "injuryId")
	if !ok {
		return
	}
	eyes, err := h.analysisSvc.ListByInjury(c.Request.Context(), injuryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eyes)
}
