package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marcenaria_pro/internal/adapter/http/handlers/mocks"
	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestIsCrawler(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"WhatsApp/2.23.20.0", true},
		{"facebookexternalhit/1.1", true},
		{"Twitterbot/1.0", true},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsCrawler(tc.ua); got != tc.want {
			t.Fatalf("IsCrawler(%q) = %v, want %v", tc.ua, got, tc.want)
		}
	}
}

func TestBotPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc usecase.ITrackingUseCase) *gin.Engine {
		r := gin.New()
		r.GET("/v1/tracking/:project_id", BotPreview(uc), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"api": true})
		})
		return r
	}

	t.Run("crawler gets html preview", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockITrackingUseCase(ctrl)

		uc.EXPECT().GetByProjectID(gomock.Any(), "p-1").Return(usecase.Tracking{
			ProjectID:   "p-1",
			ProjectName: "Cozinha",
			Timeline: []usecase.TimelineEntry{
				{Stage: entities.StageOrcamento, Status: usecase.TimelineCompleted},
				{Stage: entities.StageProjetoTecnico, Status: usecase.TimelineCurrent},
			},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/tracking/p-1", nil)
		req.Header.Set("User-Agent", "WhatsApp/2.23.20.0")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "og:title") || !strings.Contains(body, "Cozinha") {
			t.Fatalf("expected og preview, got %s", body)
		}
		if !strings.Contains(body, "projetoTecnico") {
			t.Fatalf("expected current stage in description, got %s", body)
		}
	})

	t.Run("browser falls through to the api", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockITrackingUseCase(ctrl)
		// No tracking lookup for regular clients.

		req := httptest.NewRequest(http.MethodGet, "/v1/tracking/p-1", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "api") {
			t.Fatalf("expected api response, got %d %s", w.Code, w.Body.String())
		}
	})
}
