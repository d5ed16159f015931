package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// keyPlaceholder is the template value shipped in example env files; it is
// treated the same as an unset key.
const keyPlaceholder = "YOUR_API_KEY_HERE"

// Config holds application configuration.
type Config struct {
	Port         string
	GeminiAPIKey string
	MongoURI     string
	MongoDBName  string
	StaticDir    string
}

// Load reads configuration from environment variables, with a .env file as an
// optional source of overrides.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal production case.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "finance_dashboard")
	viper.SetDefault("STATIC_DIR", "web")
	viper.AutomaticEnv()

	return &Config{
		Port:         viper.GetString("PORT"),
		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
		MongoURI:     viper.GetString("MONGO_URI"),
		MongoDBName:  viper.GetString("MONGO_DB_NAME"),
		StaticDir:    viper.GetString("STATIC_DIR"),
	}, nil
}

// HasGeminiKey reports whether a usable provider credential is configured.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != "" && c.GeminiAPIKey != keyPlaceholder
}
