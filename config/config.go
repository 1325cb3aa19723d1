package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from the environment with demo
// defaults so the server starts with no configuration at all.
type Config struct {
	Port        string
	DatabaseURL string // optional; empty selects the in-memory store

	MinPlayers        int
	MaxPlayers        int
	CountdownSeconds  int
	TickInterval      time.Duration
	CardPoolSize      int
	MaxCardsPerPlayer int

	SessionTTL        time.Duration
	WalletTTL         time.Duration
	KeepAliveInterval time.Duration
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "4000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		MinPlayers:        getEnvInt("BINGO_MIN_PLAYERS", 2),
		MaxPlayers:        getEnvInt("BINGO_MAX_PLAYERS", 50),
		CountdownSeconds:  getEnvInt("BINGO_COUNTDOWN_SECONDS", 60),
		TickInterval:      getEnvDuration("BINGO_TICK_INTERVAL", time.Second),
		CardPoolSize:      getEnvInt("BINGO_CARD_POOL_SIZE", 20),
		MaxCardsPerPlayer: getEnvInt("BINGO_MAX_CARDS_PER_PLAYER", 3),

		SessionTTL:        getEnvDuration("BINGO_SESSION_TTL", time.Hour),
		WalletTTL:         getEnvDuration("BINGO_WALLET_TTL", 30*24*time.Hour),
		KeepAliveInterval: getEnvDuration("BINGO_KEEPALIVE_INTERVAL", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
