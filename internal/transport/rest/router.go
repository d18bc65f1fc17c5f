package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/dues-management/internal/auth"
	"github.com/frahmantamala/dues-management/internal/backup"
	"github.com/frahmantamala/dues-management/internal/dues"
	"github.com/frahmantamala/dues-management/internal/resident"
	"github.com/frahmantamala/dues-management/internal/settings"
	"github.com/frahmantamala/dues-management/internal/transaction"
	"github.com/frahmantamala/dues-management/internal/transport/middleware"
	"github.com/frahmantamala/dues-management/internal/transport/swagger"
	"github.com/frahmantamala/dues-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, authService *auth.Service, userHandler *user.Handler, residentHandler *resident.Handler, duesHandler *dues.Handler, transactionHandler *transaction.Handler, settingsHandler *settings.Handler, backupHandler *backup.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Get RBAC authorization from auth service
	rbac := authService.RBACAuthorization()

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
					pr.Post("/users/me/password", userHandler.ChangePassword)
				}

				// Resident master data
				if residentHandler != nil {
					pr.Route("/residents", func(rr chi.Router) {
						rr.Get("/", residentHandler.ListResidents)
						rr.Get("/export.csv", residentHandler.ExportCSV)
						rr.Get("/blocks", residentHandler.ListBlocks)
						rr.Get("/{id}", residentHandler.GetResident)

						rr.Group(func(mr chi.Router) {
							mr.Use(rbac.Middleware(auth.PermManageResidents))
							mr.Post("/", residentHandler.CreateResident)
							mr.Patch("/{id}", residentHandler.UpdateResident)
							mr.Delete("/{id}", residentHandler.DeleteResident)
						})
					})
				}

				// Dues recording and reports
				if duesHandler != nil {
					pr.Route("/dues", func(dr chi.Router) {
						dr.Get("/report/monthly", duesHandler.MonthlyReport)
						dr.Get("/report/ytd", duesHandler.YearToDateReport)
						dr.Get("/matrix", duesHandler.Matrix)
						dr.Get("/residents/{id}", duesHandler.ResidentYearToDate)

						dr.Group(func(cr chi.Router) {
							cr.Use(rbac.RequireRecordDues())
							cr.Post("/daily", duesHandler.RecordDaySet)
							cr.Post("/package", duesHandler.RecordPackage)
							cr.Post("/custom", duesHandler.RecordFreeForm)
						})
					})
				}

				// Cash book
				if transactionHandler != nil {
					pr.Route("/transactions", func(tr chi.Router) {
						tr.Get("/", transactionHandler.Report)
						tr.Get("/recent", transactionHandler.Recent)
						tr.Get("/summary", transactionHandler.MonthlySummary)

						tr.Group(func(cr chi.Router) {
							cr.Use(rbac.RequireManageCash())
							cr.Post("/", transactionHandler.Append)
						})
					})
				}

				// Settings
				if settingsHandler != nil {
					pr.Get("/settings", settingsHandler.GetSettings)

					pr.Group(func(sr chi.Router) {
						sr.Use(rbac.Middleware(auth.PermManageSettings))
						sr.Put("/settings/daily-rate", settingsHandler.UpdateDailyRate)
						sr.Put("/settings/{key}", settingsHandler.UpdateSetting)
					})
				}

				// Backup
				if backupHandler != nil {
					pr.Group(func(br chi.Router) {
						br.Use(rbac.Middleware(auth.PermManageBackup))
						br.Get("/backup/export", backupHandler.Export)
						br.Post("/backup/import", backupHandler.Import)
					})
				}
			})
		}
	})
}
