package handlers

import (
	"errors"
	"net/http"

	"marcenaria_pro/internal/usecase"
	"marcenaria_pro/pkg"

	"github.com/gin-gonic/gin"
)

// TrackingHandler serves the public read-only project tracking surface. No
// authentication, no pricing data: only names and the stage timeline.

type TrackingHandler struct {
	usecase usecase.ITrackingUseCase
}

func NewTrackingHandler(uc usecase.ITrackingUseCase) *TrackingHandler {
	return &TrackingHandler{usecase: uc}
}

// GetTracking godoc
// @Summary      Public tracking timeline for a project
// @Tags         tracking
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Success      200 {object} usecase.Tracking
// @Failure      404 {object} pkg.HTTPError
// @Router       /tracking/{project_id} [get]
func (h *TrackingHandler) GetTracking(c *gin.Context) {
	t, err := h.usecase.GetByProjectID(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		appErr := mapTrackingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, t)
}

func mapTrackingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidProjectID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
