package api

import (
	"database/sql"
	"net/http"

	"github.com/khinezaw/shwezin/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	invoicesHandler := &InvoicesHandler{DB: db}
	calculatorHandler := &CalculatorHandler{}
	goldPricesHandler := &GoldPricesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Catalog: read (all roles), write (manager+), stock corrections (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("POST /api/items/{id}/stock", authMW(requireManager(http.HandlerFunc(itemsHandler.AdjustStock))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireManager(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Invoices (all roles).
	mux.Handle("POST /api/invoices", authMW(http.HandlerFunc(invoicesHandler.Create)))
	mux.Handle("GET /api/invoices", authMW(http.HandlerFunc(invoicesHandler.List)))
	mux.Handle("GET /api/invoices/{id}", authMW(http.HandlerFunc(invoicesHandler.Get)))
	mux.Handle("GET /api/invoices/number/{number}", authMW(http.HandlerFunc(invoicesHandler.GetByNumber)))
	mux.Handle("PUT /api/invoices/{id}/status", authMW(http.HandlerFunc(invoicesHandler.UpdateStatus)))
	mux.Handle("POST /api/invoices/import", authMW(http.HandlerFunc(invoicesHandler.Import)))

	// Calculator (all roles).
	mux.Handle("POST /api/calculator/quote", authMW(http.HandlerFunc(calculatorHandler.Quote)))
	mux.Handle("GET /api/calculator/grades", authMW(http.HandlerFunc(calculatorHandler.Grades)))

	// Market rates: read (all roles), record (manager+).
	mux.Handle("GET /api/gold-prices", authMW(http.HandlerFunc(goldPricesHandler.List)))
	mux.Handle("GET /api/gold-prices/latest", authMW(http.HandlerFunc(goldPricesHandler.Latest)))
	mux.Handle("POST /api/gold-prices", authMW(requireManager(http.HandlerFunc(goldPricesHandler.Record))))

	return mux
}
