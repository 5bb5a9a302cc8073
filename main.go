package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gmonad-points-service/handlers"
	"gmonad-points-service/models"
	"gmonad-points-service/services"
	"gmonad-points-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Referral{},
		&models.User{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Public site base the referral links point back to.
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		log.Println("⚠️  SITE_URL environment variable not set, using default: http://localhost:3000")
		siteURL = "http://localhost:3000"
	}

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("invalid SESSION_TTL:", err)
		}
		sessionTTL = ttl
	}

	sessions := services.NewSessionStore(sessionTTL)
	referralService := services.NewReferralService(db)
	taskService := services.NewTaskService(db, referralService)
	leaderboardService := services.NewLeaderboardService(db)

	app := fiber.New(fiber.Config{})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = siteURL
	}
	originList := strings.Split(allowedOrigins, ",")
	for i, origin := range originList {
		originList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(originList, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupAuthRoutes(app, sessions, referralService)
	handlers.SetupReferralRoutes(app, sessions, referralService, siteURL)
	handlers.SetupTaskRoutes(app, sessions, taskService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session lifecycle log, via the store's subscription surface.
	events, cancelEvents := sessions.Subscribe()
	defer cancelEvents()
	go func() {
		for ev := range events {
			log.Printf("👤 [SESSION] %s user=%s", ev.Type, ev.Session.UserID)
		}
	}()

	syncClient := workers.NewRewardSyncClient(db, leaderboardService)
	go workers.PollRewardPoints(ctx, syncClient, 30*time.Second)

	sessions.StartExpirySweeper()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Reward points sync running (every 30s)")
	log.Println("✅ Session expiry sweeper running (every 1m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
