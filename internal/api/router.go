/**
 * @description
 * This file sets up the HTTP router for the onboarding-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// OnboardingRoutes creates and returns a new router for the onboarding service.
func OnboardingRoutes(h *OnboardingHandlers, signingSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Signup requires no resolved identity; the caller's bearer credential is
	// forwarded to the customer directory as-is.
	r.Post("/signup", h.SignupHandler)

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(signingSecret))

		r.Post("/customer/general", h.GeneralDataHandler)
		r.Post("/customer/sign-documents", h.SignDocumentsHandler)
		r.Get("/savings-account/balance", h.SavingsBalanceHandler)
		r.Get("/balance/{accountNumber}", h.BankBalanceHandler)
	})

	return r
}
