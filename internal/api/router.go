/**
 * @description
 * This file sets up the HTTP router for the service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: Cross-origin request handling.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the router for the service.
func Routes(h *Handlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Registration is the only unauthenticated endpoint.
	r.Post("/auth/register", h.RegisterUserHandler)

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Post("/auth/verify-email", h.VerifyEmailHandler)

		r.Post("/profile", h.CreateProfileHandler)
		r.Get("/profile", h.GetProfileHandler)
		r.Put("/profile", h.UpdateProfileHandler)

		r.Get("/account", h.GetBankAccountHandler)
		r.Get("/account/lookup", h.LookupBankAccountHandler)
		r.Get("/wallet", h.GetWalletHandler)
		r.Get("/wallets/{walletID}", h.GetWalletByIDHandler)
		r.Get("/account/{bankAccountID}/wallets", h.ListWalletsByBankAccountHandler)

		r.Post("/cards", h.AttachCardHandler)
		r.Get("/cards", h.ListCardsHandler)
		r.Get("/cards/{cardID}", h.GetCardHandler)
		r.Delete("/cards/{cardID}", h.RemoveCardHandler)

		r.Post("/transfers/wallet-to-bank", h.WalletToBankTransferHandler)
		r.Post("/transfers/bank-to-wallet", h.BankToWalletTransferHandler)
		r.Post("/transfers/card-to-bank", h.CardToBankTransferHandler)
		r.Post("/transfers/card-to-card", h.CardToCardTransferHandler)
		r.Get("/transfers", h.ListTransfersHandler)
	})

	return r
}
