package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marcenaria_pro/internal/adapter/http/handlers/mocks"
	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/domain/workflow"
	"marcenaria_pro/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestProjectHandler_CreateProject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)
		h := NewProjectHandler(uc)

		r := gin.New()
		r.POST("/v1/projects", h.CreateProject)

		req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)
		h := NewProjectHandler(uc)

		r := gin.New()
		r.POST("/v1/projects", h.CreateProject)

		uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, p entities.Project) (entities.Project, error) {
				p.ID = "p-1"
				return p, nil
			},
		)

		body := `{"owner_id":"owner-1","name":"Cozinha","client_name":"Maria"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp["id"] != "p-1" || resp["name"] != "Cozinha" {
			t.Fatalf("unexpected body: %v", resp)
		}
	})
}

func TestProjectHandler_MutateStage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc *mocks.MockIProjectUseCase) *gin.Engine {
		h := NewProjectHandler(uc)
		r := gin.New()
		r.PATCH("/v1/projects/:project_id/stages", h.MutateStage)
		return r
	}

	patch := func(r *gin.Engine, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/v1/projects/p-1/stages", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("unknown field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		w := patch(newRouter(uc), `{"stage":"corte","field":"banana"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("guard violation maps to 422", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		uc.EXPECT().ApplyStageMutation(gomock.Any(), "p-1", gomock.Any()).Return(entities.Project{}, workflow.ErrPivotIncomplete)

		w := patch(newRouter(uc), `{"stage":"corte","field":"completed","completed":true}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("declined confirmation maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		uc.EXPECT().ApplyStageMutation(gomock.Any(), "p-1", gomock.Any()).Return(entities.Project{}, workflow.ErrConfirmationDeclined)

		w := patch(newRouter(uc), `{"stage":"projetoTecnico","field":"completed","completed":true}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("freeze validation maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		uc.EXPECT().ApplyStageMutation(gomock.Any(), "p-1", gomock.Any()).Return(entities.Project{}, workflow.ErrMissingClientName)

		w := patch(newRouter(uc), `{"stage":"projetoTecnico","field":"completed","completed":true,"confirmed":true}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("persistence failure returns 502 with the applied project", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		applied := entities.Project{ID: "p-1", OwnerID: "owner-1", Name: "Cozinha"}
		applied.Stages.Orcamento.Completed = true
		uc.EXPECT().ApplyStageMutation(gomock.Any(), "p-1", gomock.Any()).Return(applied, usecase.ErrPersistenceFailed)

		w := patch(newRouter(uc), `{"stage":"orcamento","field":"completed","completed":true}`)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		var resp struct {
			Project struct {
				ID string `json:"id"`
			} `json:"project"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Project.ID != "p-1" {
			t.Fatalf("expected applied project in body, got %s", w.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProjectUseCase(ctrl)

		var got workflow.StageMutation
		uc.EXPECT().ApplyStageMutation(gomock.Any(), "p-1", gomock.Any()).DoAndReturn(
			func(_ interface{}, _ string, m workflow.StageMutation) (entities.Project, error) {
				got = m
				return entities.Project{ID: "p-1"}, nil
			},
		)

		w := patch(newRouter(uc), `{"stage":"projetoTecnico","field":"completed","completed":true,"confirmed":true}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got.Stage != entities.StageProjetoTecnico || got.Field != workflow.FieldCompleted || !got.Confirmed {
			t.Fatalf("unexpected mutation: %+v", got)
		}
	})
}

func TestProjectHandler_ListProjects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIProjectUseCase(ctrl)
	h := NewProjectHandler(uc)

	r := gin.New()
	r.GET("/v1/projects", h.ListProjects)

	uc.EXPECT().ListByOwner(gomock.Any(), usecase.SessionContext{IsFirstLoginThisSession: true}, "owner-1").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects?owner_id=owner-1&first_login=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
