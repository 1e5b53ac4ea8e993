package app

import (
	"context"
	"log"
	"sync"

	"clientdesk/configs"
	"clientdesk/internal/handlers"
	"clientdesk/internal/repositories"
	"clientdesk/internal/servers/database"
	"clientdesk/internal/servers/http"
	"clientdesk/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()
	app.initializeRedis()

	db := database.GetDB(app.configs)
	userRepo := repositories.NewUserRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	// The single-admin topology is a startup invariant, not something
	// inferred per request.
	admin, err := userRepo.FindSoleAdmin()
	if err != nil {
		log.Fatalf("Admin account invariant violated: %v", err)
	}

	eventService := services.NewEventService(
		app.ctx,
		app.redis,
		app.configs.Viper.GetString("chat.events_channel"),
	)
	chatService := services.NewChatService(
		chatRepo,
		userRepo,
		eventService,
		admin.ID,
		app.configs.Viper.GetInt("chat.default_list_limit"),
	)

	minioService := services.NewMinioService(app.configs)
	attachmentService := services.NewAttachmentService(
		chatService,
		minioService,
		app.configs.Viper.GetInt64("chat.max_attachment_bytes"),
		app.configs.Viper.GetStringSlice("chat.allowed_extensions"),
	)

	restHandler := handlers.NewRestHandler(chatService, attachmentService)

	http.NewHttpServer(app.ctx, app.configs, restHandler).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}
