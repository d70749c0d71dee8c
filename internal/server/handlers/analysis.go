package handlers

import (
	"io"
	"net/http"

	"hyphema-tracker/internal/domain"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

// analysisResponse echoes the submission alongside the provisional
// percentage; dates go out as plain calendar dates.
type analysisResponse struct {
	PatientID  uint    `json:"patientId"`
	InjuryID   uint    `json:"injuryId"`
	Eye        string  `json:"eye"`
	Date       string  `json:"date"`
	Image      string  `json:"processedImage"`
	Percentage float64 `json:"percentageOfEyeAffectedByHyphema"`
}

type savedResultResponse struct {
	ID         uint   `json:"id"`
	InjuryID   uint   `json:"injuryId"`
	Eye        string `json:"eye"`
	Date       string `json:"date"`
	Percentage int    `json:"percentageOfEyeAffectedByHyphema"`
}

type healingPointResponse struct {
	Date       string `json:"date"`
	Percentage int    `json:"percentageOfEyeAffectedByHyphema"`
}

// RunAnalysis accepts a multipart photo submission, runs one detector
// invocation, and returns the provisional result. Nothing is persisted
// until the clinician confirms via SaveResult.
func (h *Handler) RunAnalysis(c *gin.Context) {
	patientID, ok := uintParam(c, "patientId")
	if !ok {
		return
	}

	var form struct {
		InjuryID uint   `form:"injury_id" binding:"required"`
		Eye      string `form:"eye" binding:"required"`
		Date     string `form:"date" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	side, err := domain.ParseEyeSide(form.Eye)
	if err != nil {
		respondError(c, apperrors.NewValidationError("eye", "must be LEFT or RIGHT"))
		return
	}
	date, err := utils.ParseISODate(form.Date)
	if err != nil {
		respondError(c, apperrors.NewValidationError("date", "must be an ISO-8601 calendar date"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondError(c, apperrors.NewValidationError("photo", "photo file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO, "failed to open uploaded photo"))
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO, "failed to read uploaded photo"))
		return
	}

	result, err := h.analysisSvc.Analyze(c.Request.Context(), patientID, form.InjuryID, side, date, photo, fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysisResponse{
		PatientID:  result.PatientID,
		InjuryID:   result.InjuryID,
		Eye:        string(result.Side),
		Date:       utils.FormatISODate(result.Date),
		Image:      result.PhotoPath,
		Percentage: result.Percentage,
	})
}

// SaveResult is the confirm step: it validates the clinician-approved
// values and appends one measurement to the healing curve.
func (h *Handler) SaveResult(c *gin.Context) {
	patientID, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	var req SaveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	eye, err := h.analysisSvc.Confirm(c.Request.Context(), patientID, req.InjuryID, req.Eye, req.Date, *req.Percentage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, savedResultResponse{
		ID:         eye.ID,
		InjuryID:   eye.InjuryID,
		Eye:        string(eye.Side),
		Date:       utils.FormatISODate(eye.Date),
		Percentage: eye.Percentage,
	})
}

// HealingCurve returns the date-ordered measurements for one injury side.
func (h *Handler) HealingCurve(c *gin.Context) {
	patientID, ok := uintParam(c, "patientId")
	if !ok {
		return
	}
	injuryID, ok := uintParam(c, "injuryId")
	if !ok {
		return
	}
	side, err := domain.ParseEyeSide(c.Param("eyeSide"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("eyeSide", "must be LEFT or RIGHT"))
		return
	}

	points, err := h.analysisSvc.HealingCurve(c.Request.Context(), patientID, injuryID, side)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]healingPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, healingPointResponse{
			Date:       utils.FormatISODate(p.Date),
			Percentage: p.Percentage,
		})
	}
	c.JSON(http.StatusOK, resp)
}
