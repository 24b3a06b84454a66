package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	MediaDir    string
	LogFile     string
	PlatformURL string
	// Service account the gateway uses against the platform API.
	PlatformEmail string
	PlatformPass  string
	RedisAddr     string
	RedisPass     string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tvicladmin.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tvicladmin.log"
	}
	platform := os.Getenv("TVICL_API_URL")
	if platform == "" {
		platform = "http://localhost:5000/api"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		MediaDir:      media,
		LogFile:       logFile,
		PlatformURL:   platform,
		PlatformEmail: os.Getenv("TVICL_API_EMAIL"),
		PlatformPass:  os.Getenv("TVICL_API_PASSWORD"),
		RedisAddr:     redisAddr,
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s TVICL_API_URL=%s REDIS_ADDR=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.PlatformURL, cfg.RedisAddr)
	return cfg
}
