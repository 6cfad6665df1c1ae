package main

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"hotel_desk_backend/internal/database"
	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
	"hotel_desk_backend/internal/router"
	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "hotel_desk_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "hotel_desk_password")
	dbName := utils.Getenv("DB_NAME", "hotel_desk_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")

	db, err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"host": dbHost, "name": dbName})

	if err := bootstrapAdmin(db); err != nil {
		utils.LogError(err, "Failed to bootstrap admin user")
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})
	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// bootstrapAdmin creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD. Registration is admin-only over HTTP, so a fresh database
// needs this seed; an existing username is left untouched.
func bootstrapAdmin(db *sql.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	authService := services.NewAuthService(repositories.NewAuthRepository(db), repositories.NewDatabase(db))
	role := models.RoleAdmin
	_, err := authService.RegisterUser(models.RegistrationPayload{
		Username: username,
		Password: password,
		Role:     &role,
	})
	if errors.Is(err, services.ErrUsernameExists) {
		return nil
	}
	if err != nil {
		return err
	}
	utils.LogInfo("Admin user bootstrapped", map[string]interface{}{"username": username})
	return nil
}
