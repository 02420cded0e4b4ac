package config

import (
	"os"
	"strconv"
	"strings"
)

// Config collects the environment-driven settings used at startup.
type Config struct {
	DBPath        string
	Port          string
	AdminEmails   []string // emails granted the Administrator role on signup
	ImgurClientID string   // empty means photos are stored on local disk
	ESAddresses   []string // empty means search falls back to the database
	ESIndex       string
	UploadDir     string

	RecipesPerPage   int
	ReviewsPerPage   int
	FollowersPerPage int
}

// Load reads configuration from the environment, applying the defaults
// the development setup expects.
func Load() *Config {
	return &Config{
		DBPath:           getenv("COOKZILLA_DB_PATH", "cookzilla.db"),
		Port:             getenv("PORT", "8080"),
		AdminEmails:      split(os.Getenv("COOKZILLA_ADMINS")),
		ImgurClientID:    os.Getenv("COOKZILLA_IMGUR_CLIENT_ID"),
		ESAddresses:      split(os.Getenv("COOKZILLA_ES_ADDRESSES")),
		ESIndex:          getenv("COOKZILLA_ES_INDEX", "cookzilla-recipes"),
		UploadDir:        getenv("COOKZILLA_UPLOAD_DIR", "static/upload"),
		RecipesPerPage:   getint("COOKZILLA_RECIPES_PER_PAGE", 20),
		ReviewsPerPage:   getint("COOKZILLA_REVIEWS_PER_PAGE", 10),
		FollowersPerPage: getint("COOKZILLA_FOLLOWERS_PER_PAGE", 50),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func split(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
