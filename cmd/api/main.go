package main

import (
	"log"
	"os"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Sales Order Workflow API
// @version         1.0
// @description     Workflow engine driving manufacturing sales orders through a fixed nine-step fulfillment pipeline.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger, err := zap.NewProduction()
	if gin.Mode() != gin.ReleaseMode {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	allowRework := os.Getenv("WORKFLOW_ALLOW_REWORK") != "false"

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	stepRepo := repository.NewWorkflowStepRepository(db)
	assignmentRepo := repository.NewStepAssignmentRepository(db)
	auditRepo := repository.NewStepAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	fileStorage := storage.NewLocalFileStorage(uploadDir, logger)

	userService := service.NewUserService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	salesOrderService := service.NewSalesOrderService(salesOrderRepo)
	notificationService := service.NewNotificationService(notificationRepo, wsHub, logger)
	workflowService := service.NewWorkflowService(
		txManager,
		salesOrderRepo,
		stepRepo,
		assignmentRepo,
		auditRepo,
		employeeRepo,
		notificationService,
		logger,
		allowRework,
	)
	documentService := service.NewDocumentService(txManager, stepRepo, fileStorage, logger)
	statsService := service.NewWorkflowStatsService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService)
	workflowHandler := handler.NewWorkflowHandler(workflowService, documentService, statsService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	employeeHandler.RegisterRoutes(router.Group(""))
	salesOrderHandler.RegisterRoutes(router.Group(""))
	workflowHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("Server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
