package middleware

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"marcenaria_pro/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Crawler user agents that fetch shared tracking links to build previews.
// WhatsApp is the one customers actually use; the rest come for free.
var crawlerAgents = []string{
	"whatsapp",
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"telegrambot",
	"linkedinbot",
	"slackbot",
	"discordbot",
	"googlebot",
	"bingbot",
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:type" content="website">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:url" content="{{.URL}}">
<meta name="twitter:card" content="summary">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
</head>
<body>{{.Description}}</body>
</html>
`))

type previewData struct {
	Title       string
	Description string
	URL         string
}

// IsCrawler reports whether the user agent belongs to a link-preview bot.
func IsCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, agent := range crawlerAgents {
		if strings.Contains(ua, agent) {
			return true
		}
	}
	return false
}

// BotPreview intercepts crawler requests on the public tracking route and
// serves a static HTML document with Open Graph tags instead of the JSON API
// response. Regular clients fall through to the handler chain.
func BotPreview(tracking usecase.ITrackingUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsCrawler(c.GetHeader("User-Agent")) {
			c.Next()
			return
		}

		projectID := c.Param("project_id")
		t, err := tracking.GetByProjectID(c.Request.Context(), projectID)
		if err != nil {
			// Bots get a generic preview rather than an error page.
			log.Printf("[tracking][middleware] preview lookup failed project_id=%s err=%v", projectID, err)
			t = usecase.Tracking{ProjectName: "Acompanhamento de projeto"}
		}

		data := previewData{
			Title:       "Acompanhe: " + t.ProjectName,
			Description: describeProgress(t),
			URL:         c.Request.URL.String(),
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := previewTemplate.Execute(c.Writer, data); err != nil {
			log.Printf("[tracking][middleware] preview render failed project_id=%s err=%v", projectID, err)
		}
		c.Abort()
	}
}

func describeProgress(t usecase.Tracking) string {
	if t.Canceled {
		return "Projeto cancelado"
	}
	completed := 0
	for _, e := range t.Timeline {
		if e.Status == usecase.TimelineCompleted {
			completed++
		}
	}
	if len(t.Timeline) == 0 {
		return "Acompanhe o andamento do seu projeto de marcenaria"
	}
	if completed == len(t.Timeline) {
		return "Projeto concluído"
	}
	for _, e := range t.Timeline {
		if e.Status == usecase.TimelineCurrent {
			return "Etapa atual: " + string(e.Stage)
		}
	}
	return "Acompanhe o andamento do seu projeto de marcenaria"
}
