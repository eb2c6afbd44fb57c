package routes

import (
	"log"
	"os"
	"strconv"

	_ "marcenaria_pro/docs" // This will be auto-generated
	"marcenaria_pro/internal/adapter/cache"
	"marcenaria_pro/internal/adapter/http/handlers"
	"marcenaria_pro/internal/adapter/http/middleware"
	repository2 "marcenaria_pro/internal/adapter/persistence/repository"
	"marcenaria_pro/internal/infrastructure/chat"
	"marcenaria_pro/internal/infrastructure/database"
	"marcenaria_pro/internal/infrastructure/payments"
	"marcenaria_pro/internal/usecase"
	"marcenaria_pro/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()
	localCache := cache.NewMemory()

	projectRepo := repository2.NewProjectDynamoRepository(ddb)
	clientRepo := repository2.NewClientDynamoRepository(ddb)
	workshopRepo := repository2.NewWorkshopDynamoRepository(ddb)
	paymentRepo := repository2.NewPaymentDynamoRepository(ddb)

	var notifier interfaces.IChatNotifier
	chatNotifier, err := chat.NewWebhookNotifier()
	if err != nil {
		log.Printf("Chat notifier not configured: %v", err)
	} else {
		notifier = chatNotifier
	}

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	workshopUseCase := usecase.NewWorkshopUseCase(workshopRepo, localCache)
	projectUseCase := usecase.NewProjectUseCase(projectRepo, workshopUseCase, localCache, notifier)
	clientUseCase := usecase.NewClientUseCase(clientRepo, localCache)
	trackingUseCase := usecase.NewTrackingUseCase(projectRepo)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, projectRepo, paymentGateway)
	reportUseCase := usecase.NewReportUseCase(projectRepo, workshopRepo)

	projectHandler := handlers.NewProjectHandler(projectUseCase)
	workshopHandler := handlers.NewWorkshopHandler(workshopUseCase)
	clientHandler := handlers.NewClientHandler(clientUseCase)
	trackingHandler := handlers.NewTrackingHandler(trackingUseCase)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)
	reportHandler := handlers.NewReportHandler(reportUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addMarcenariaRoutes(v1, projectHandler, workshopHandler, clientHandler, paymentHandler, reportHandler)
	addTrackingRoutes(v1, trackingHandler, trackingUseCase)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

func addTrackingRoutes(rg *gin.RouterGroup, trackingHandler *handlers.TrackingHandler, trackingUseCase usecase.ITrackingUseCase) {
	tracking := rg.Group(PathTracking)
	{
		// Crawlers que montam preview de link recebem HTML com Open Graph.
		tracking.GET("/:project_id", middleware.BotPreview(trackingUseCase), trackingHandler.GetTracking)
	}
}
