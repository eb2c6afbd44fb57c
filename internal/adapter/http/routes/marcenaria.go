package routes

import (
	"marcenaria_pro/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathProjects = "/projects"
	PathWorkshop = "/workshop"
	PathClients  = "/clients"
	PathPayments = "/payments"
	PathReports  = "/reports"
	PathTracking = "/tracking"
)

func addMarcenariaRoutes(
	rg *gin.RouterGroup,
	projectHandler *handlers.ProjectHandler,
	workshopHandler *handlers.WorkshopHandler,
	clientHandler *handlers.ClientHandler,
	paymentHandler *handlers.PaymentHandler,
	reportHandler *handlers.ReportHandler,
) {
	projects := rg.Group(PathProjects)
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:project_id", projectHandler.GetProject)
		projects.PUT("/:project_id", projectHandler.UpdateProject)
		projects.DELETE("/:project_id", projectHandler.DeleteProject)
		// Toda mudança de etapa passa pelo motor de workflow.
		projects.PATCH("/:project_id/stages", projectHandler.MutateStage)
		projects.GET("/:project_id/price", projectHandler.GetProjectPrice)
	}

	workshop := rg.Group(PathWorkshop)
	{
		workshop.PUT("", workshopHandler.SaveWorkshop)
		workshop.GET("/:owner_id", workshopHandler.GetWorkshop)
	}

	clients := rg.Group(PathClients)
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.ListClients)
		clients.GET("/:client_id", clientHandler.GetClient)
		clients.PUT("/:client_id", clientHandler.UpdateClient)
		clients.DELETE("/:client_id", clientHandler.DeleteClient)
	}

	payments := rg.Group(PathPayments)
	{
		payments.POST("/:project_id", paymentHandler.CreatePayment)
		payments.GET("/:project_id", paymentHandler.ListPayments)
	}

	reports := rg.Group(PathReports)
	{
		reports.GET("/financial", reportHandler.GetFinancialReport)
	}
}
