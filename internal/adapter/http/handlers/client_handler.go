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

var errInvalidClientPayload = pkg.NewDomainErrorSimple("INVALID_CLIENT_INPUT", "Invalid client payload", http.StatusBadRequest)

// ClientHandler handles HTTP requests for an owner's clients.

type ClientHandler struct {
	usecase usecase.IClientUseCase
}

func NewClientHandler(uc usecase.IClientUseCase) *ClientHandler {
	return &ClientHandler{usecase: uc}
}

// CreateClient godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client body request.ClientRequest true "Client"
// @Success      201 {object} response.ClientResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var payload request.ClientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidClientPayload.HTTPStatus, errInvalidClientPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), payload.ToEntity())
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromClient(created))
}

// GetClient godoc
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Param        client_id path string true "Client ID"
// @Success      200 {object} response.ClientResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /clients/{client_id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.usecase.GetByID(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClient(client))
}

// UpdateClient godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client_id path string true "Client ID"
// @Param        client body request.ClientRequest true "Client"
// @Success      200 {object} response.ClientResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /clients/{client_id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var payload request.ClientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidClientPayload.HTTPStatus, errInvalidClientPayload.ToHTTPError())
		return
	}

	client := payload.ToEntity()
	client.ID = c.Param("client_id")

	updated, err := h.usecase.Update(c.Request.Context(), client)
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClient(updated))
}

// DeleteClient godoc
// @Summary      Delete a client
// @Tags         clients
// @Param        client_id path string true "Client ID"
// @Success      204
// @Failure      400 {object} pkg.HTTPError
// @Router       /clients/{client_id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("client_id")); err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

// ListClients godoc
// @Summary      List an owner's clients
// @Tags         clients
// @Produce      json
// @Param        owner_id query string true "Owner ID"
// @Param        first_login query bool false "First login of this session"
// @Param        force_reload query bool false "Bypass the local cache"
// @Success      200 {array} response.ClientResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	session := sessionFromQuery(c)

	clients, err := h.usecase.ListByOwner(c.Request.Context(), session, c.Query("owner_id"))
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClients(clients))
}

func mapClientError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrClientNotFound):
		return pkg.NewDomainErrorSimple("CLIENT_NOT_FOUND", "Client not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidClientID),
		errors.Is(err, usecase.ErrInvalidClientName),
		errors.Is(err, usecase.ErrInvalidOwnerID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
