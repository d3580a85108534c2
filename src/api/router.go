package api

import (
	"net/http"

	"walletly-server/src/handlers"
	"walletly-server/src/middleware"
	"walletly-server/src/services"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, txService *services.TransactionService, engine *services.ScheduledEngine, corsOrigins []string, readOnly bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(corsOrigins))
	r.Use(middleware.ReadOnlyModeMiddleware(readOnly))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			r.Get("/auth/verify", handlers.VerifyToken(pool))

			// Wallets
			r.Get("/wallets", handlers.GetWallets(pool))
			r.Post("/wallets", handlers.CreateWallet(pool))
			r.Post("/wallets/initial-balance", handlers.SetInitialBalance(pool))
			r.Get("/wallets/{wallet_id}", handlers.GetWallet(pool))
			r.Put("/wallets/{wallet_id}", handlers.UpdateWallet(pool))
			r.Delete("/wallets/{wallet_id}", handlers.DeleteWallet(pool))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Post("/transactions", handlers.CreateTransaction(txService))
			r.Get("/transactions/{transaction_id}", handlers.GetTransaction(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(txService))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(txService))

			// Scheduled transactions
			r.Get("/scheduled-transactions", handlers.GetScheduledTransactions(pool))
			r.Post("/scheduled-transactions", handlers.CreateScheduledTransaction(pool))
			r.Post("/scheduled-transactions/execute", handlers.ExecuteScheduledTransactions(engine))
			r.Put("/scheduled-transactions/{scheduled_id}", handlers.UpdateScheduledTransaction(pool))
			r.Delete("/scheduled-transactions/{scheduled_id}", handlers.DeleteScheduledTransaction(pool))

			// Budgets
			r.Post("/budgets", handlers.UpsertBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Categories
			r.Get("/categories", handlers.GetCategories(pool))
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))
		})
	})

	return r
}
