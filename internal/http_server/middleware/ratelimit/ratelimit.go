package ratelimit

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

func Login() func(http.Handler) http.Handler {
	return limitByIP(10, 5*time.Minute)
}

func Registration() func(http.Handler) http.Handler {
	return limitByIP(5, time.Hour)
}

func limitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window)
}
