package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"clientdesk/configs"
	"clientdesk/internal/handlers"

	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx         context.Context
	config      *configs.Config
	router      *gin.Engine
	restHandler *handlers.RestHandler
}

func NewHttpServer(ctx context.Context, config *configs.Config, restHandler *handlers.RestHandler) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:         ctx,
			config:      config,
			restHandler: restHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()

	server := hs.startServer()

	// Wait for interrupt signal to gracefully shut down the server
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRestfulRoutes() {
	api := hs.router.Group("/api", handlers.MustAuthenticateMiddleware())

	api.GET("/chat/admin-info", hs.restHandler.GetAdminInfo)
	api.POST("/chat/messages", hs.restHandler.SendMessage)
	api.GET("/chat/messages", hs.restHandler.GetMessages)
	api.POST("/chat/upload", hs.restHandler.UploadAttachment)
	api.GET("/notifications/unread-count", hs.restHandler.GetUnreadCount)

	admin := api.Group("/admin")
	admin.GET("/chat/conversations", hs.restHandler.GetConversations)
	admin.DELETE("/chat/message/:id", hs.restHandler.DeleteMessage)
	admin.DELETE("/chat/bulk-delete", hs.restHandler.BulkDeleteMessages)
	admin.DELETE("/chat/conversation/:clientId", hs.restHandler.DeleteConversation)
	admin.GET("/chat/export/:clientId", hs.restHandler.ExportTranscript)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Println("HTTP server started on", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
