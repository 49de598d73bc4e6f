package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/models"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=UTC",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// SeedDefaultPreferences backfills a preference row for every user that has
// none, so the reminder evaluator never has to special-case missing settings.
func SeedDefaultPreferences(db *gorm.DB) error {
	var users []models.User
	if err := db.Where("active = ?", true).Find(&users).Error; err != nil {
		return err
	}

	for _, user := range users {
		prefs := models.NotificationPreferences{UserID: user.ID}
		if err := db.FirstOrCreate(&prefs, models.NotificationPreferences{UserID: user.ID}).Error; err != nil {
			return err
		}
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.NotificationPreferences{},
		&models.TimeEntry{},
		&models.Notification{},
		&models.Mention{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedDefaultPreferences(db); err != nil {
		return fmt.Errorf("seeding preferences error: %v", err)
	}

	return nil
}
