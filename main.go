package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/clockwisehq/clockwise/cache"
	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/db"
	"github.com/clockwisehq/clockwise/mailingservices"
	"github.com/clockwisehq/clockwise/realtime"
	"github.com/clockwisehq/clockwise/server"
	"github.com/clockwisehq/clockwise/services"
)

func initLogger(debug bool) *zap.Logger {
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/app.log",
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	})

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		level,
	)

	return zap.New(core)
}

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := initLogger(conf.Debug)
	defer logger.Sync()

	if conf.RedisAddr != "" {
		if err := cache.InitRedis(conf.RedisAddr); err != nil {
			logger.Warn("redis unavailable, unread counts served from the database", zap.Error(err))
		}
	}

	mailgunClient := mailingservices.NewMailgun(conf, logger)

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	timesheetRepo := db.NewTimesheetRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	mentionRepo := db.NewMentionRepo(gormDB)

	hub := realtime.NewHub()

	templateService := services.NewTemplateService(conf)
	channels := services.NewDeliveryChannels(templateService, mailgunClient, hub, logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, channels, conf, logger)
	mentionService := services.NewMentionService(userRepo, mentionRepo, notificationService, conf, logger)
	reminderService := services.NewReminderService(userRepo, timesheetRepo, notificationService, conf, logger)

	s := &server.Server{
		Config:              conf,
		Logger:              logger,
		DB:                  gormDB,
		Mail:                mailgunClient,
		UserRepository:      userRepo,
		NotificationService: notificationService,
		MentionService:      mentionService,
		ReminderService:     reminderService,
		Hub:                 hub,
	}

	s.Start()
}
