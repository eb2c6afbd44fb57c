package handlers

import (
	"errors"
	"net/http"

	"marcenaria_pro/internal/usecase"
	"marcenaria_pro/pkg"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the financial report surface.

type ReportHandler struct {
	usecase usecase.IReportUseCase
}

func NewReportHandler(uc usecase.IReportUseCase) *ReportHandler {
	return &ReportHandler{usecase: uc}
}

// GetFinancialReport godoc
// @Summary      Financial report over an owner's projects
// @Tags         reports
// @Produce      json
// @Param        owner_id query string true "Owner ID"
// @Success      200 {object} usecase.FinancialReport
// @Failure      400 {object} pkg.HTTPError
// @Router       /reports/financial [get]
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	report, err := h.usecase.ByOwner(c.Request.Context(), c.Query("owner_id"))
	if err != nil {
		appErr := mapReportError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, report)
}

func mapReportError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOwnerID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
