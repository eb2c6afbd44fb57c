package handlers

import (
	"errors"
	"net/http"

	request "marcenaria_pro/internal/adapter/http/dto/request"
	response "marcenaria_pro/internal/adapter/http/dto/response"
	"marcenaria_pro/internal/domain/workflow"
	"marcenaria_pro/internal/usecase"
	"marcenaria_pro/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidProjectPayload = pkg.NewDomainErrorSimple("INVALID_PROJECT_INPUT", "Invalid project payload", http.StatusBadRequest)
	errInvalidStagePayload   = pkg.NewDomainErrorSimple("INVALID_STAGE_INPUT", "Invalid stage mutation payload", http.StatusBadRequest)
)

// ProjectHandler handles HTTP requests for projects: CRUD, pricing and the
// stage workflow endpoint.

type ProjectHandler struct {
	usecase usecase.IProjectUseCase
}

func NewProjectHandler(uc usecase.IProjectUseCase) *ProjectHandler {
	return &ProjectHandler{usecase: uc}
}

// CreateProject godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project body request.ProjectRequest true "Project"
// @Success      201 {object} response.ProjectResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var payload request.ProjectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProjectPayload.HTTPStatus, errInvalidProjectPayload.ToHTTPError())
		return
	}

	p, err := h.usecase.Create(c.Request.Context(), payload.ToEntity())
	if err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromProject(p))
}

// GetProject godoc
// @Summary      Get a project by id
// @Tags         projects
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Success      200 {object} response.ProjectResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProject(p))
}

// UpdateProject godoc
// @Summary      Update a project's editable fields
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Param        project body request.ProjectRequest true "Project"
// @Success      200 {object} response.ProjectResponse
// @Failure      400 {object} pkg.HTTPError
// @Failure      404 {object} pkg.HTTPError
// @Router       /projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var payload request.ProjectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProjectPayload.HTTPStatus, errInvalidProjectPayload.ToHTTPError())
		return
	}

	p := payload.ToEntity()
	p.ID = c.Param("project_id")

	updated, err := h.usecase.Update(c.Request.Context(), p)
	if err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProject(updated))
}

// DeleteProject godoc
// @Summary      Delete a project
// @Tags         projects
// @Param        project_id path string true "Project ID"
// @Success      204
// @Failure      400 {object} pkg.HTTPError
// @Router       /projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("project_id")); err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

// ListProjects godoc
// @Summary      List an owner's projects
// @Tags         projects
// @Produce      json
// @Param        owner_id query string true "Owner ID"
// @Param        first_login query bool false "First login of this session"
// @Param        force_reload query bool false "Bypass the local cache"
// @Success      200 {array} response.ProjectResponse
// @Failure      400 {object} pkg.HTTPError
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	session := sessionFromQuery(c)

	projects, err := h.usecase.ListByOwner(c.Request.Context(), session, c.Query("owner_id"))
	if err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProjects(projects))
}

// MutateStage godoc
// @Summary      Apply one stage mutation to a project
// @Description  Completing projetoTecnico freezes cost snapshots and requires confirmed=true; un-completing it clears them, also confirmed.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Param        mutation body request.StageMutationRequest true "Stage mutation"
// @Success      200 {object} response.ProjectResponse
// @Failure      400 {object} pkg.HTTPError
// @Failure      409 {object} pkg.HTTPError
// @Failure      422 {object} pkg.HTTPError
// @Router       /projects/{project_id}/stages [patch]
func (h *ProjectHandler) MutateStage(c *gin.Context) {
	var payload request.StageMutationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidStagePayload.HTTPStatus, errInvalidStagePayload.ToHTTPError())
		return
	}

	m, err := payload.ToMutation()
	if err != nil {
		c.JSON(errInvalidStagePayload.HTTPStatus, errInvalidStagePayload.ToHTTPError())
		return
	}

	p, err := h.usecase.ApplyStageMutation(c.Request.Context(), c.Param("project_id"), m)
	if err != nil {
		// A store failure after the optimistic cache write still carries the
		// applied project so the caller can keep working on it.
		if errors.Is(err, usecase.ErrPersistenceFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   pkg.NewDomainErrorSimple("PERSISTENCE_FAILED", "Project store write failed", http.StatusBadGateway).ToHTTPError(),
				"project": response.FromProject(p),
			})
			return
		}
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProject(p))
}

// GetProjectPrice godoc
// @Summary      Get the full price breakdown of a project
// @Tags         projects
// @Produce      json
// @Param        project_id path string true "Project ID"
// @Success      200 {object} response.PriceBreakdownResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /projects/{project_id}/price [get]
func (h *ProjectHandler) GetProjectPrice(c *gin.Context) {
	projectID := c.Param("project_id")

	bd, err := h.usecase.PriceBreakdown(c.Request.Context(), projectID)
	if err != nil {
		appErr := mapProjectError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.PriceBreakdownResponse{ProjectID: projectID, Breakdown: bd})
}

func sessionFromQuery(c *gin.Context) usecase.SessionContext {
	return usecase.SessionContext{
		IsFirstLoginThisSession: c.Query("first_login") == "true",
		ForceReloadRequested:    c.Query("force_reload") == "true",
	}
}

func mapProjectError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, workflow.ErrConfirmationDeclined):
		return pkg.NewDomainErrorSimple("CONFIRMATION_REQUIRED", "This stage change requires confirmation", http.StatusConflict)
	case errors.Is(err, workflow.ErrGuardViolation):
		return pkg.NewDomainError("STAGE_TRANSITION_REJECTED", err.Error(), err, http.StatusUnprocessableEntity)
	case errors.Is(err, workflow.ErrValidation):
		return pkg.NewDomainError("PROJECT_VALIDATION_FAILED", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDateLockedBeforePivot):
		return pkg.NewDomainErrorSimple("DATE_LOCKED", "Estimated completion date requires a completed technical design", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidProjectID),
		errors.Is(err, usecase.ErrInvalidOwnerID),
		errors.Is(err, usecase.ErrInvalidProjectName):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
