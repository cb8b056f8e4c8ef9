package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RedisURI         string
	RabbitMQURI      string
	RabbitMQExchange string
	TriviaBaseURL    string
	TriviaCountURL   string
	TriviaTimeout    int
	QuestionTime     int
	LeaderboardSize  int
	LeaderboardTTL   int
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:             getEnvOrDefault("PORT", "6677"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "cerebrum_service"),
		RedisURI:         getEnvOrDefault("REDIS_URI", ""),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		TriviaBaseURL:    getEnvOrDefault("TRIVIA_BASE_URL", "https://opentdb.com/api.php"),
		TriviaCountURL:   getEnvOrDefault("TRIVIA_COUNT_URL", "https://opentdb.com/api_count.php"),
		TriviaTimeout:    getEnvIntOrDefault("TRIVIA_TIMEOUT_SECONDS", 10),
		QuestionTime:     getEnvIntOrDefault("QUESTION_TIME_LIMIT_SECONDS", 30),
		LeaderboardSize:  getEnvIntOrDefault("LEADERBOARD_SIZE", 20),
		LeaderboardTTL:   getEnvIntOrDefault("LEADERBOARD_CACHE_TTL_SECONDS", 60),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid value for %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}
