package main

import (
	"fmt"
	"log"

	"github.com/xoqon2003/bot/internal/config"
	"github.com/xoqon2003/bot/internal/database"
	"github.com/xoqon2003/bot/internal/handlers"
	"github.com/xoqon2003/bot/internal/jobs"
	"github.com/xoqon2003/bot/internal/middleware"
	"github.com/xoqon2003/bot/internal/services"
	"github.com/xoqon2003/bot/internal/store"
	"github.com/xoqon2003/bot/internal/telegram"
	"github.com/xoqon2003/bot/internal/telemetry"
	"github.com/xoqon2003/bot/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN not set in environment")
	}

	telemetry.Init()

	var backend store.Store
	if cfg.DBDsn != "" {
		db := database.Connect(cfg.DBDsn)
		database.AutoMigrate(db)
		backend = store.NewPostgresStore(db)
	} else {
		backend = store.NewFileStore(cfg.StateFile)
	}

	state, err := store.NewStateManager(backend)
	if err != nil {
		log.Fatalf("failed to load contest state: %v", err)
	}

	hub := ws.NewHub()
	queue := jobs.NewQueue()
	defer queue.Stop()

	client := telegram.NewClient(cfg.BotToken)
	contest := services.NewContestService(state, client, queue, hub, cfg.RefreshInterval)
	handler := telegram.NewUpdateHandler(client, contest, queue, cfg.DeleteAfter, cfg.DefaultDays)

	var bot *telegram.Bot
	if cfg.WebhookBaseURL != "" {
		webhookURL := fmt.Sprintf("%s/webhook/bot", cfg.WebhookBaseURL)
		bot = telegram.NewBotWebhook(client, handler, webhookURL, cfg.WebhookSecret)
	} else {
		poller := telegram.NewPoller(client, handler, cfg.PollTimeout)
		bot = telegram.NewBotPolling(client, handler, poller)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}
	defer bot.Stop()

	contest.Resume()

	contestHandler := handlers.NewContestHandler(contest)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Bot-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/chat/:id", wsHandler.HandleWebSocket)
	r.POST("/webhook/bot", bot.HandleWebhook)

	api := r.Group("/api/v1")
	api.Use(middleware.BotAuth(cfg.BotAPIKey))
	{
		api.GET("/chats/:id/contest", contestHandler.GetContest)
		api.GET("/chats/:id/leaderboard", contestHandler.GetLeaderboard)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
