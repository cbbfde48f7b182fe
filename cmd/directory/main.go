package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/floqer/directory/internal/directory/controller"
	"github.com/floqer/directory/internal/directory/db"
	"github.com/floqer/directory/internal/directory/events"
	"github.com/floqer/directory/internal/directory/handlers"
)

// Config struct for YAML configuration.
type Config struct {
	HTTPPort        int      `yaml:"HTTP_PORT"`
	DBHost          string   `yaml:"DB_HOST"`
	DBPort          int      `yaml:"DB_PORT"`
	DBUser          string   `yaml:"DB_USER"`
	DBPassword      string   `yaml:"DB_PASSWORD"`
	DBName          string   `yaml:"DB_NAME"`
	DBSSLMode       string   `yaml:"DB_SSLMODE"`
	AdminUploadCode string   `yaml:"ADMIN_UPLOAD_CODE"`
	SiteURL         string   `yaml:"SITE_URL"`
	SitemapLimit    int      `yaml:"SITEMAP_LIMIT"`
	KafkaBrokers    []string `yaml:"KAFKA_BROKERS"`
	Topic           string   `yaml:"TOPIC"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}
	defer repo.Close()

	var producer controller.EventProducer = events.NoopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			log.Fatal("failed to initialize Kafka producer", err)
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	directorySvc := controller.NewDirectoryService(repo, producer, logger)
	handler := handlers.NewDirectoryHandler(directorySvc, logger, cfg.SiteURL, cfg.SitemapLimit)

	server := handlers.NewServer(cfg.HTTPPort, logger)
	server.RegisterRoutes(handler, cfg.AdminUploadCode)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig reads the YAML config file and applies environment overrides
// for the settings that carry secrets or vary per deployment.
func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:     8080,
		DBHost:       "localhost",
		DBPort:       5432,
		DBUser:       "postgres",
		DBName:       "directory",
		DBSSLMode:    "disable",
		SiteURL:      "https://directory.floqer.com",
		SitemapLimit: 1000,
		Topic:        "directory-imports",
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("internal", "directory", "config", "config.yaml")
	}
	if file, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = port
		}
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if v := os.Getenv("ADMIN_UPLOAD_CODE"); v != "" {
		cfg.AdminUploadCode = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.SiteURL = v
	}

	if cfg.AdminUploadCode == "" {
		return nil, errors.New("ADMIN_UPLOAD_CODE must be set")
	}
	return cfg, nil
}

// initDatabase builds the repository connection config.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
