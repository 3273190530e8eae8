// Package config provides centralized default values for PageCraft
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvSecret(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Document store
	MongoURI         string
	MongoDatabase    string
	MongoOpTimeout   time.Duration
	MongoPingTimeout time.Duration

	// Auth
	JWTSecret        string
	AdminPassword    string
	EditorPassword   string
	TokenLifetime    time.Duration
	AllowDemoLogin   bool
	CORSAllowOrigins []string

	// Editor sessions
	EditorSessionTTL       time.Duration
	EditorSessionSweep     time.Duration
	MaxEditorSessions      int
	BroadcastWriteDeadline time.Duration

	// Logging
	LogDirectory string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Document store; an empty URI switches persistence to the in-memory
	// repositories (demo mode).
	MongoURI = getEnvSecret("MONGO_URI", "")
	MongoDatabase = getEnvString("MONGO_DATABASE", "pagecraft")
	MongoOpTimeout = getEnvDuration("MONGO_OP_TIMEOUT", 10*time.Second)
	MongoPingTimeout = getEnvDuration("MONGO_PING_TIMEOUT", 5*time.Second)

	// Auth
	JWTSecret = getEnvSecret("JWT_SECRET", "")
	AdminPassword = getEnvSecret("ADMIN_PASSWORD", "")
	EditorPassword = getEnvSecret("EDITOR_PASSWORD", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 12*time.Hour)
	AllowDemoLogin = getEnvString("ALLOW_DEMO_LOGIN", "false") == "true"
	CORSAllowOrigins = strings.Split(getEnvString("CORS_ALLOW_ORIGINS",
		"http://localhost:3000,http://localhost:4321,http://127.0.0.1:3000,http://127.0.0.1:4321"), ",")

	// Editor sessions
	EditorSessionTTL = time.Duration(getEnvInt("EDITOR_SESSION_TTL_MINUTES", 120)) * time.Minute
	EditorSessionSweep = time.Duration(getEnvInt("EDITOR_SESSION_SWEEP_MINUTES", 10)) * time.Minute
	MaxEditorSessions = getEnvInt("MAX_EDITOR_SESSIONS", 100)
	BroadcastWriteDeadline = getEnvDuration("BROADCAST_WRITE_DEADLINE", 10*time.Second)

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
}
