package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/auth"
	"github.com/yukikurage/flight-docs-api/internal/config"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/handlers"
	"github.com/yukikurage/flight-docs-api/internal/middleware"
	"github.com/yukikurage/flight-docs-api/internal/notify"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	isProduction := cfg.GinMode == "release"

	logger, err := newLogger(isProduction)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	fileStore, err := storage.New(storage.Config{
		Driver:    cfg.StoreDriver,
		LocalPath: cfg.StoreLocalPath,
		Bucket:    cfg.StoreBucket,
		Region:    cfg.StoreRegion,
		AccessID:  cfg.StoreAccessID,
		AccessKey: cfg.StoreAccessKey,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create file store", zap.Error(err))
	}

	notifier := notify.New(notify.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	airportRepo := repository.NewAirportRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	userService := services.NewUserService(userRepo, tokens, notifier, cfg.EmailDomain, logger)
	airportService := services.NewAirportService(airportRepo, logger)
	flightService := services.NewFlightService(flightRepo, documentRepo, airportRepo, fileStore, logger)
	membershipService := services.NewMembershipService(flightRepo, userRepo, logger)
	documentService := services.NewDocumentService(documentRepo, flightRepo, fileStore, cfg.MaxUploadBytes, logger)

	// Initialize Gin router
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("failed to create redis session store", zap.Error(err))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize handlers
	authenticator := middleware.NewAuthenticator(tokens, userService)
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	airportHandler := handlers.NewAirportHandler(airportService)
	flightHandler := handlers.NewFlightHandler(flightService, membershipService)
	documentHandler := handlers.NewDocumentHandler(documentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Flight Docs API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
			authRoutes.GET("/me", authenticator.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(authenticator.RequireAuth())
		{
			users.POST("", middleware.RequireAdmin(), userHandler.Register)
			users.GET("", middleware.RequireElevated(), userHandler.ListUsers)
			users.GET("/by-role", middleware.RequireElevated(), userHandler.UsersByRole)
			users.POST("/change-owner", middleware.RequireAdmin(), userHandler.ChangeOwner)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Airport routes (protected; writes need an elevated role)
		airports := api.Group("/airports")
		airports.Use(authenticator.RequireAuth())
		{
			airports.GET("", airportHandler.ListAirports)
			airports.GET("/:id", airportHandler.GetAirport)
			airports.POST("", middleware.RequireElevated(), airportHandler.CreateAirport)
			airports.PUT("/:id", middleware.RequireElevated(), airportHandler.UpdateAirport)
			airports.DELETE("/:id", middleware.RequireElevated(), airportHandler.DeleteAirport)
		}

		// Flight routes (protected)
		flights := api.Group("/flights")
		flights.Use(authenticator.RequireAuth())
		{
			flights.GET("", flightHandler.ListFlights)
			flights.GET("/search", flightHandler.SearchFlights)
			flights.GET("/:id", middleware.RequireFlightAccess(flightService), flightHandler.GetFlight)
			flights.POST("", middleware.RequireElevated(), flightHandler.CreateFlight)
			flights.PUT("/:id", middleware.RequireElevated(), flightHandler.UpdateFlight)
			flights.POST("/:id/advance", middleware.RequireElevated(), flightHandler.AdvanceFlight)
			flights.DELETE("/:id", middleware.RequireElevated(), flightHandler.DeleteFlight)
			flights.POST("/:id/members", middleware.RequireElevated(), flightHandler.AddMembers)
			flights.GET("/:id/documents", flightHandler.FlightDocuments)
		}

		// Document routes (protected)
		documents := api.Group("/documents")
		documents.Use(authenticator.RequireAuth())
		{
			documents.GET("", documentHandler.ListDocuments)
			documents.GET("/search", documentHandler.SearchDocuments)
			documents.GET("/:id", middleware.RequireDocumentAccess(documentService), documentHandler.GetDocument)
			documents.POST("/flights/:flightId", middleware.RequireElevated(), documentHandler.CreateDocument)
			documents.PUT("/:id", documentHandler.UpdateDocument)
			documents.DELETE("/:id", documentHandler.DeleteDocument)
			documents.GET("/:id/download", documentHandler.DownloadDocument)
			documents.PUT("/:id/can-edit", documentHandler.SetCanEdit)
		}
	}

	// Start server
	logger.Info("server starting", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
