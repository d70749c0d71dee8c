package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterPatient creates a new patient account
func (h *Handler) RegisterPatient(c *gin.Context) {
	var req RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patient, err := h.patientSvc.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// GetPatient returns one patient by ID
func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	patient, err := h.patientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// ListPatients returns all patients
func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.patientSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

// UpdatePatient changes a patient's login
func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patient, err := h.patientSvc.UpdateLogin(c.Request.Context(), id, req.Login)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// DeletePatient removes a patient and everything it owns
func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	if err := h.patientSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uintParam parses a numeric path parameter, replying 400 on garbage.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation",
			Message: "invalid " + name + " format",
		})
		return 0, false
	}
	return uint(v), true
}
