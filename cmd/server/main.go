package main

import (
	"log"

	"classpoints/internal/config"
	"classpoints/internal/model"
	"classpoints/internal/server"
	"classpoints/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	} else {
		log.Println("REDIS_ADDR not set, sessions and live streams are degraded")
	}

	srv := server.NewServer(db, redisClient, cfg)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Identity{},
		&model.User{},
		&model.Class{},
		&model.PointsEntry{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Identity{}).
		Where("email = ?", "admin@classpoints.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	identity := model.Identity{
		Email:        "admin@classpoints.local",
		PasswordHash: string(hashedPasswordBytes),
	}
	if err := db.Create(&identity).Error; err != nil {
		return err
	}

	admin := model.User{
		ID:    identity.ID,
		Name:  "Administrator",
		Email: identity.Email,
		Role:  model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@classpoints.local")
	log.Println("   Password: admin123")

	return nil
}
