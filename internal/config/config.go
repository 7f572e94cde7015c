package config

import "os"

type Config struct {
	DatabaseURL    string
	JWTSecret      string
	Port           string
	AIGatewayURL   string
	AIGatewayToken string
	UploadDir      string
}

func Load() *Config {
	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "goalsbingo.db"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:           getEnv("PORT", "8080"),
		AIGatewayURL:   getEnv("AI_GATEWAY_URL", ""),
		AIGatewayToken: getEnv("AI_GATEWAY_TOKEN", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
