package configs

import (
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// .env is optional in deployed environments, everything can come from
	// the real environment there.
	_ = godotenv.Load()
}

func EnvMongoURI() string {
	return os.Getenv("MONGOURI")
}

func RedisURL() string {
	return os.Getenv("REDISURL")
}

func EnvJWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func EnvIngestAPIURL() string {
	return os.Getenv("INGEST_API_URL")
}

func EnvIngestAPIToken() string {
	return os.Getenv("INGEST_API_TOKEN")
}

// EnvRTMPServer is the self-hosted ingest endpoint used when no external
// ingest provider is configured.
func EnvRTMPServer() string {
	return os.Getenv("RTMP_SERVER")
}

func EnvPlaybackBaseURL() string {
	return os.Getenv("PLAYBACK_BASE_URL")
}

func EnvPort() string {
	return os.Getenv("PORT")
}

func EnvLogLevel() string {
	return os.Getenv("LOG_LEVEL")
}
