package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment.
// Every field has a sane default so the app boots with an empty .env.
type Config struct {
	Port         string
	BaseURL      string
	DataDir      string
	UploadsDir   string
	AllowOrigins []string
	Location     *time.Location
}

func Load() Config {
	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
		DataDir:    getEnv("DATA_DIR", "./data"),
		UploadsDir: getEnv("UPLOADS_DIR", "./uploads"),
	}

	origins := getEnv("ALLOW_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	// Receipt timestamps and report buckets are store-local, not server-local.
	tzName := getEnv("TZ_NAME", "Asia/Jakarta")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to Local", tzName)
		loc = time.Local
	}
	cfg.Location = loc

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
