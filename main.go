package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/maulidiphilip/money-manager-api/internal/client"
	"github.com/maulidiphilip/money-manager-api/internal/config"
	"github.com/maulidiphilip/money-manager-api/internal/db"
	"github.com/maulidiphilip/money-manager-api/internal/handler"
	"github.com/maulidiphilip/money-manager-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureProfileSchema(ctx); err != nil {
		log.Fatalf("profile schema: %v", err)
	}
	if err := store.EnsureCategorySchema(ctx); err != nil {
		log.Fatalf("category schema: %v", err)
	}

	codec, err := service.NewTokenCodec(cfg.Auth)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	mailer, err := client.NewEmailClient(cfg.SMTP)
	if err != nil {
		log.Fatalf("email client: %v", err)
	}

	profileSvc := service.NewProfileService(store, mailer, codec, cfg.App)
	categorySvc := service.NewCategoryService(store)

	profileHandler := handler.NewProfileHandler(profileSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(allowedOrigins(), true))
	router.Use(handler.Authentication(codec))

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/status", handler.Status)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	v1 := router.Group("/api/v1")

	profiles := v1.Group("/profiles")
	profiles.POST("/register", profileHandler.Register)
	profiles.GET("/activate", profileHandler.Activate)
	profiles.POST("/login", profileHandler.Login)
	profiles.GET("/me", handler.RequireAuth(), profileHandler.Me)

	categories := v1.Group("/categories", handler.RequireAuth())
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)

	addr := ":" + cfg.App.Port
	log.Printf("listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:5173", "http://localhost:3000"}
	}
	return strings.Split(raw, ",")
}
