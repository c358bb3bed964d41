package main

import (
	"log"
	"os"
	"time"

	"account-service/internal/database"
	"account-service/internal/handlers"
	"account-service/internal/middleware"
	"account-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// External Clients
	bridgeClient := services.NewBridgeClient()
	storageClient := services.NewStorageClient()

	// Init Services
	profileService := services.NewProfileService(db)
	onboardingService := services.NewOnboardingService(db)
	verificationService := services.NewVerificationService(db)
	companyService := services.NewCompanyService(db)
	requestService := services.NewRequestService(db)
	referralService := services.NewReferralService(db, asynqClient)
	tradingService := services.NewTradingService(db, bridgeClient)
	dashboardService := services.NewDashboardService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(profileService)
	profileHandler := handlers.NewProfileHandler(profileService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, storageClient)
	verificationHandler := handlers.NewVerificationHandler(verificationService, storageClient)
	companyHandler := handlers.NewCompanyHandler(companyService, storageClient)
	requestHandler := handlers.NewRequestHandler(requestService, storageClient, referralService)
	referralHandler := handlers.NewReferralHandler(referralService)
	tradingHandler := handlers.NewTradingHandler(tradingService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Account Service",
		})
	})

	r.POST("/auth/token", authHandler.IssueToken)
	r.POST("/referrals/signup", referralHandler.Signup)

	// Authenticated user surface
	api := r.Group("/api")
	api.Use(middleware.Auth())
	api.Use(middleware.Idempotency(redisClient, 24*time.Hour))
	{
		api.GET("/profile", profileHandler.GetMe)
		api.PATCH("/profile", profileHandler.UpdateMe)

		api.GET("/onboarding", onboardingHandler.GetState)
		api.PUT("/onboarding/draft", onboardingHandler.SaveDraft)
		api.POST("/onboarding/next", onboardingHandler.Next)
		api.POST("/onboarding/back", onboardingHandler.Back)
		api.POST("/onboarding/documents", onboardingHandler.UploadDocument)
		api.POST("/onboarding/submit", onboardingHandler.Submit)

		api.POST("/verification", verificationHandler.Submit)
		api.GET("/verification", verificationHandler.GetMine)

		api.POST("/company-requests", companyHandler.Submit)
		api.GET("/company-requests", companyHandler.ListMine)
		api.POST("/company-requests/:id/documents", companyHandler.UploadDocuments)
		api.GET("/companies", companyHandler.ListMyCompanies)

		api.POST("/requests", requestHandler.Create)
		api.GET("/requests", requestHandler.ListMine)
		api.GET("/requests/:id", requestHandler.GetOne)
		api.POST("/requests/:id/documents", requestHandler.UploadDocument)
		api.GET("/requests/:id/documents", requestHandler.ListDocuments)

		api.POST("/referrals/generate", referralHandler.Generate)
		api.GET("/referrals", referralHandler.Overview)
		api.POST("/referrals/invite", referralHandler.Invite)

		api.GET("/trading-accounts", tradingHandler.ListMine)
		api.POST("/trading-accounts/sync", tradingHandler.Sync)

		api.GET("/dashboard", dashboardHandler.UserStats)
	}

	// Admin surface
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(), middleware.RequireAdmin())
	{
		admin.GET("/summary", dashboardHandler.AdminSummary)

		admin.GET("/profiles", profileHandler.ListAll)
		admin.PATCH("/profiles/:userId/status", profileHandler.SetStatus)
		admin.PATCH("/profiles/:userId/role", profileHandler.SetRole)

		admin.GET("/verifications", verificationHandler.ListAll)
		admin.POST("/verifications/:id/review", verificationHandler.Review)

		admin.GET("/company-requests", companyHandler.ListAll)
		admin.GET("/company-requests/actions", companyHandler.Actions)
		admin.POST("/company-requests/:id/actions", companyHandler.Act)

		admin.GET("/requests", requestHandler.ListAll)
		admin.PATCH("/requests/:id/status", requestHandler.UpdateStatus)
		admin.GET("/requests/:id/audit", requestHandler.AuditTrail)

		admin.GET("/referrals", referralHandler.ListAll)
		admin.GET("/referrals/:id", referralHandler.GetOne)
		admin.POST("/referrals/:id/payments", referralHandler.RecordPayment)
		admin.PATCH("/referrals/:id/status", referralHandler.UpdateStatus)

		admin.GET("/trading-accounts", tradingHandler.AdminLookup)
	}

	// Start Cron Schedulers
	referralService.StartScheduler()
	tradingService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
