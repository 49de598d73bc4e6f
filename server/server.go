package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/db"
	"github.com/clockwisehq/clockwise/mailingservices"
	"github.com/clockwisehq/clockwise/realtime"
	"github.com/clockwisehq/clockwise/services"
)

type Server struct {
	Config              *config.Config
	Logger              *zap.Logger
	DB                  *db.GormDB
	Mail                *mailingservices.Mailgun
	UserRepository      db.UserRepository
	NotificationService services.NotificationService
	MentionService      services.MentionService
	ReminderService     services.ReminderService
	Hub                 *realtime.Hub
}

func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.ReminderService.Start(ctx)

	go func() {
		s.Logger.Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.Logger.Info("shutting down server")
	s.ReminderService.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("forced shutdown", zap.Error(err))
	}
}
