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

// PaymentHandler handles HTTP requests for project payments.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Charge a project's frozen final price
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Param        payment body request.PaymentRequest true "Provider payload"
// @Success      201 {object} response.PaymentResponse
// @Failure      400 {object} pkg.HTTPError
// @Failure      409 {object} pkg.HTTPError
// @Router       /payments/{project_id} [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	p, err := h.usecase.CreateForProject(c.Request.Context(), c.Param("project_id"), payload.ProviderPayload)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPayment(p))
}

// ListPayments godoc
// @Summary      List a project's payments
// @Tags         payments
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Success      200 {array} response.PaymentResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /payments/{project_id} [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.usecase.ListByProjectID(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayments(payments))
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentProjectID), errors.Is(err, usecase.ErrInvalidProviderPayload):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProjectNotFrozen):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FROZEN", "Project price is not frozen yet; complete the technical design first", http.StatusConflict)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_BAD_REQUEST", "Payment provider rejected the request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
