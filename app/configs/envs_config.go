package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type ENV struct {
	APP_ENV           string
	Port              string
	APIBaseURLDev     string
	APIBaseURLProd    string
	APIBaseURL        string
	ImageBaseURL      string
	APITimeout        time.Duration
	APIRetries        int
	APIRetryBackoff   time.Duration
	APIToken          string
	AppAuthKey        string
	AppEncKey         string
	CSRFKey           string
	SessionSecure     bool
	LogLevel          string
	LogEncoding       string
	TemplateDirectory string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	env := ENV{
		APP_ENV:           getenv("APP_ENV", EnvDevelopment),
		Port:              getenv("APP_PORT", ":8080"),
		APIBaseURLDev:     getenv("API_BASE_URL_DEV", "http://localhost:5000/api"),
		APIBaseURLProd:    os.Getenv("API_BASE_URL_PROD"),
		APITimeout:        parseDur(getenv("API_TIMEOUT", "10s"), 10*time.Second),
		APIRetries:        atoi(getenv("API_RETRIES", "2"), 2),
		APIRetryBackoff:   parseDur(getenv("API_RETRY_BACKOFF", "1s"), time.Second),
		APIToken:          os.Getenv("API_TOKEN"),
		AppAuthKey:        os.Getenv("APP_AUTH_KEY"),
		AppEncKey:         os.Getenv("APP_ENC_KEY"),
		CSRFKey:           os.Getenv("CSRF_KEY"),
		SessionSecure:     getenv("SESSION_SECURE", "false") == "true",
		LogLevel:          os.Getenv("LOG_LEVEL"),
		LogEncoding:       os.Getenv("LOG_ENCODING"),
		TemplateDirectory: getenv("TEMPLATE_DIR", "templates"),
	}
	env.APIBaseURL = resolveBaseURL(env.APP_ENV, os.Getenv("API_BASE_URL"), env.APIBaseURLDev, env.APIBaseURLProd)
	env.ImageBaseURL = getenv("IMAGE_BASE_URL", strings.TrimSuffix(env.APIBaseURL, "/api"))

	return env
}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == EnvProduction
}

// resolveBaseURL picks the API endpoint: an explicit override first, then the
// endpoint matching the app environment.
func resolveBaseURL(appEnv, override, dev, prod string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	if appEnv == EnvProduction && prod != "" {
		return strings.TrimRight(prod, "/")
	}
	return strings.TrimRight(dev, "/")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return def
	}
	return i
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
