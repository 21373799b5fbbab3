package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Static shared secret for the public API.
	APIBearerToken string

	// Google Generative AI credentials and models.
	GoogleAPIKey string
	ChatModel    string
	EmbedModel   string

	// MongoDB Atlas connection parameters (mongodb+srv host).
	MongoHost string
	MongoUser string
	MongoPass string

	DBName         string
	CollectionName string
	VectorIndex    string

	// Indexing and retrieval tunables.
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MaxDocBytes  int64

	LogLevel  string
	LogFormat string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8000"),
		APIBearerToken: os.Getenv("API_BEARER_TOKEN"),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		ChatModel:      getEnv("CHAT_MODEL", "gemini-1.5-flash-latest"),
		EmbedModel:     getEnv("EMBED_MODEL", "embedding-001"),
		MongoHost:      os.Getenv("MONGO_HOST"),
		MongoUser:      os.Getenv("MONGO_USER"),
		MongoPass:      os.Getenv("MONGO_PASS"),
		DBName:         getEnv("MONGO_DB", "langchain_db"),
		CollectionName: getEnv("MONGO_COLLECTION", "documents"),
		VectorIndex:    getEnv("MONGO_VECTOR_INDEX", "vector_index"),
		ChunkSize:      getEnvInt("CHUNK_SIZE", 1500),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 200),
		TopK:           getEnvInt("RETRIEVAL_TOP_K", 5),
		MaxDocBytes:    int64(getEnvInt("MAX_DOCUMENT_BYTES", 15<<20)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
	return cfg
}

// Validate reports the first missing required variable. The service refuses
// to start without credentials for the API and the LLM; Mongo parameters are
// checked at connect time so startup can proceed and retry on first request.
func (c Config) Validate() error {
	if c.APIBearerToken == "" {
		return errors.New("API_BEARER_TOKEN is not set")
	}
	if c.GoogleAPIKey == "" {
		return errors.New("GOOGLE_API_KEY is not set")
	}
	return nil
}

// MongoConfigured reports whether all Atlas connection parameters are present.
func (c Config) MongoConfigured() bool {
	return c.MongoHost != "" && c.MongoUser != "" && c.MongoPass != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
