package handlers

import (
	"errors"
	"net/http"

	request "marcenaria_pro/internal/adapter/http/dto/request"
	response "marcenaria_pro/internal/adapter/http/dto/response"
	"marcenaria_pro/internal/usecase"
	"marcenaria_pro/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidWorkshopPayload = pkg.NewDomainErrorSimple("INVALID_WORKSHOP_INPUT", "Invalid workshop settings payload", http.StatusBadRequest)

// WorkshopHandler handles HTTP requests for per-owner workshop settings.

type WorkshopHandler struct {
	usecase usecase.IWorkshopUseCase
}

func NewWorkshopHandler(uc usecase.IWorkshopUseCase) *WorkshopHandler {
	return &WorkshopHandler{usecase: uc}
}

// GetWorkshop godoc
// @Summary      Get an owner's workshop settings
// @Tags         workshop
// @Produce      json
// @Param        owner_id path string true "Owner ID"
// @Success      200 {object} response.WorkshopSettingsResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /workshop/{owner_id} [get]
func (h *WorkshopHandler) GetWorkshop(c *gin.Context) {
	s, err := h.usecase.GetByOwner(c.Request.Context(), c.Param("owner_id"))
	if err != nil {
		appErr := mapWorkshopError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromWorkshopSettings(s))
}

// SaveWorkshop godoc
// @Summary      Create or replace an owner's workshop settings
// @Tags         workshop
// @Accept       json
// @Produce      json
// @Param        settings body request.WorkshopSettingsRequest true "Workshop settings"
// @Success      200 {object} response.WorkshopSettingsResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /workshop [put]
func (h *WorkshopHandler) SaveWorkshop(c *gin.Context) {
	var payload request.WorkshopSettingsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidWorkshopPayload.HTTPStatus, errInvalidWorkshopPayload.ToHTTPError())
		return
	}

	s, err := h.usecase.Save(c.Request.Context(), payload.ToEntity())
	if err != nil {
		appErr := mapWorkshopError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromWorkshopSettings(s))
}

func mapWorkshopError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrWorkshopNotFound):
		return pkg.NewDomainErrorSimple("WORKSHOP_NOT_FOUND", "Workshop settings not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidWorkshopOwner),
		errors.Is(err, usecase.ErrInvalidWorkingDays),
		errors.Is(err, usecase.ErrInvalidTaxPercentage):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
