package database

import (
	"fmt"
	"log"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// Release deployments migrate only when asked to; every other mode
	// migrates on boot.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedTopics(db)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every collection. Shared with the test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Community{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.Review{},
		&model.Post{},
		&model.AuditLog{},
	)
}

// Default topic tags so fresh deployments have something to attach
// communities to.
func seedTopics(db *gorm.DB) {
	var count int64
	db.Model(&model.Topic{}).Count(&count)
	if count > 0 {
		return
	}

	defaultTopics := []model.Topic{
		{Name: "programming", Description: "Software development and coding"},
		{Name: "design", Description: "Visual and product design"},
		{Name: "business", Description: "Entrepreneurship and management"},
		{Name: "languages", Description: "Natural language learning"},
		{Name: "music", Description: "Instruments and music theory"},
		{Name: "fitness", Description: "Health and physical training"},
	}
	for _, t := range defaultTopics {
		db.Create(&t)
	}
}
