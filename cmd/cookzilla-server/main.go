package main

import (
	"log"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/admin"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/config"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/database"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/events"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/groups"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/images"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/logger"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/recipes"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/reviews"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/search"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/tags"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/users"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title Cookzilla API
// @version 1.0
// @description A social recipe sharing service with groups, events, reviews, and personalized feeds.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()
	appLog := logger.NewFromEnv()

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	// Run auto-migrations and seed roles and the tag vocabulary
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := models.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	appLog.Info("database migrations and seeds completed")

	// Create a default admin user if no administrator exists
	if err := ensureAdminExists(db, cfg.AdminEmails); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	// Full-text search backend. Without Elasticsearch configured the
	// database LIKE fallback keeps /search working.
	var index search.Index
	if len(cfg.ESAddresses) > 0 {
		es, err := search.NewElastic(cfg.ESAddresses, cfg.ESIndex)
		if err != nil {
			log.Fatalf("Failed to connect to Elasticsearch: %v", err)
		}
		index = es
		appLog.Info("search backed by elasticsearch", "index", cfg.ESIndex)
	} else {
		index = search.NewDatabase(db)
		appLog.Info("search backed by database LIKE queries")
	}

	// Photo storage. Imgur when a client id is configured, local disk
	// otherwise.
	var store images.Store
	if cfg.ImgurClientID != "" {
		store = images.NewImgur(cfg.ImgurClientID)
		appLog.Info("photos stored on imgur")
	} else {
		store = images.NewLocal(cfg.UploadDir, "/uploads")
		appLog.Info("photos stored locally", "dir", cfg.UploadDir)
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Locally stored photos are served straight from disk
	if cfg.ImgurClientID == "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "cookzilla",
			})
		})

		// Auth routes (public + session management)
		authHandler := auth.NewHandler(db, cfg.AdminEmails)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Profiles, feed, and the follow graph
		usersHandler := users.NewHandler(db, cfg.RecipesPerPage, cfg.FollowersPerPage)
		usersHandler.RegisterRoutes(api)

		// Recipes, links, tags on recipes, photos, and search
		recipesHandler := recipes.NewHandler(db, appLog, index, store)
		recipesHandler.RegisterRoutes(api)

		// Reviews and moderation
		reviewsHandler := reviews.NewHandler(db, cfg.ReviewsPerPage)
		reviewsHandler.RegisterRoutes(api)

		// Tag vocabulary browsing
		tagsHandler := tags.NewHandler(db, cfg.RecipesPerPage)
		tagsHandler.RegisterRoutes(api)

		// Groups and membership
		groupsHandler := groups.NewHandler(db, cfg.RecipesPerPage)
		groupsHandler.RegisterRoutes(api)

		// Events, RSVPs, and reports
		eventsHandler := events.NewHandler(db, cfg.ReviewsPerPage)
		eventsHandler.RegisterRoutes(api)

		// Admin routes (admin role required)
		adminHandler := admin.NewHandler(db)
		adminHandler.RegisterRoutes(api)
	}

	appLog.Info("starting cookzilla server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default administrator if no user holds
// the administer bit yet. The account is created confirmed so the
// operator can log in immediately and change the password.
func ensureAdminExists(db *gorm.DB, adminEmails []string) error {
	adminRole, err := models.AdministratorRole(db)
	if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := "admin@cookzilla.local"
	if len(adminEmails) > 0 {
		email = adminEmails[0]
	}

	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        email,
		Username:     "admin",
		Name:         "Admin",
		PasswordHash: hashedPassword,
		RoleID:       adminRole.ID,
		Confirmed:    true,
	}
	if err := models.CreateUser(db, &adminUser, adminEmails); err != nil {
		return err
	}

	log.Printf("Created default admin user: %s (password: changeme)", email)
	return nil
}
