package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(requestID())

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	testSendLimiter := limitRateForTestSend(store)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apirouter := router.Group("/api/v1")
	apirouter.GET("/healthz", s.handleHealthCheck())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/notifications", s.handleListNotifications())
	authorized.GET("/notifications/unread/count", s.handleUnreadCount())
	authorized.PUT("/notifications/:id/read", s.handleMarkRead())
	authorized.PUT("/notifications/read-all", s.handleMarkAllRead())
	authorized.DELETE("/notifications/:id", s.handleDeleteNotification())
	authorized.POST("/notifications/test", testSendLimiter, s.handleTestNotification())
	authorized.POST("/reminders/run", s.handleRunReminders())
	authorized.POST("/comments/:commentID/mentions", s.handleCreateMentions())
	authorized.DELETE("/comments/:commentID/mentions", s.handleDeleteMentions())
	authorized.GET("/ws/notifications", s.handleNotificationSocket())
}
