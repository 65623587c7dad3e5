package config

import "os"

// Config holds the service configuration, read from the environment
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	QuestionsDir string
	ScoringPath  string

	TransportBaseURL string
	TransportToken   string
	WebhookSecret    string

	OperatorUsername string
	OperatorPassword string
	JWTSecret        string
}

// Load reads the configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "riskscreen"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("PORT", "8080"),

		QuestionsDir: getEnv("QUESTIONS_DIR", "config"),
		ScoringPath:  getEnv("SCORING_PATH", "config/scoring.json"),

		TransportBaseURL: getEnv("TRANSPORT_BASE_URL", "http://localhost:8090"),
		TransportToken:   getEnv("TRANSPORT_TOKEN", ""),
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),

		OperatorUsername: getEnv("OPERATOR_USERNAME", "admin"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", "password123"),
		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
