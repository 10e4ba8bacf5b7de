// Package couldiat registers the routes of the API.
package couldiat

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/dashboard"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/pendinginscriptions"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/pendingpaiements"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/validateinscription"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/validatepaiement"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/changepassword"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/login"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/logout"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/profile"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/register"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/auth/updateprofile"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/concours/concourslist"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/concours/concoursread"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/abonnementread"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/chapitres"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/maprogression"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/matieres"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/questions"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/submitqcm"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/subscribe"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/health"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/inscription/inscriptioncreate"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/inscription/inscriptionlist"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/inscription/inscriptionread"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/paiement/paiementcreate"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/paiement/paiementread"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/reset/resetconfirm"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/reset/resetrequest"
	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/reset/resetverify"
	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	adminservice "github.com/Ing-Nahine/concours-backend/internal/services/admin"
	authservice "github.com/Ing-Nahine/concours-backend/internal/services/auth"
	concoursservice "github.com/Ing-Nahine/concours-backend/internal/services/concours"
	resetservice "github.com/Ing-Nahine/concours-backend/internal/services/passwordreset"
	progressionservice "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	subscriptionservice "github.com/Ing-Nahine/concours-backend/internal/services/subscription"
)

// Services groups the business services the router hands to the handlers.
type Services struct {
	Auth         *authservice.AuthService
	Reset        *resetservice.ResetService
	Concours     *concoursservice.ConcoursService
	Admin        *adminservice.AdminService
	Subscription *subscriptionservice.SubscriptionService
	Progression  *progressionservice.ProgressionService
}

// RegisterRoutes mounts every endpoint of the API.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/health", health.New().ServeHTTP)

	// Open endpoints, rate limited.
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/password-reset", resetrequest.New(logger, s.Reset).ServeHTTP)
		// Resend shares the handler and the rate-limit counter with the
		// initial request.
		r.Post("/auth/password-reset/resend", resetrequest.New(logger, s.Reset).ServeHTTP)
		r.Post("/auth/password-reset/verify", resetverify.New(logger, s.Reset).ServeHTTP)
		r.Post("/auth/password-reset/confirm", resetconfirm.New(logger, s.Reset).ServeHTTP)

		r.Get("/concours", concourslist.New(logger, s.Concours).ServeHTTP)
		r.Get("/concours/{id}", concoursread.New(logger, s.Concours).ServeHTTP)
	})

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

		r.Post("/auth/logout", logout.New(logger).ServeHTTP)
		r.Get("/auth/profile", profile.New(logger, s.Auth).ServeHTTP)
		r.Put("/auth/profile", updateprofile.New(logger, s.Auth).ServeHTTP)
		r.Put("/auth/password", changepassword.New(logger, s.Auth).ServeHTTP)

		r.Post("/concours/inscription", inscriptioncreate.New(logger, s.Concours).ServeHTTP)
		r.Get("/concours/mes-inscriptions", inscriptionlist.New(logger, s.Concours).ServeHTTP)
		r.Get("/concours/inscriptions/{id}", inscriptionread.New(logger, s.Concours).ServeHTTP)
		r.Post("/concours/paiement", paiementcreate.New(logger, s.Concours).ServeHTTP)
		r.Get("/concours/inscriptions/{id}/paiement", paiementread.New(logger, s.Concours).ServeHTTP)

		r.Get("/formation/abonnement", abonnementread.New(logger, s.Subscription).ServeHTTP)
		r.Post("/formation/abonnement", subscribe.New(logger, s.Subscription).ServeHTTP)
		r.Get("/formation/matieres", matieres.New(logger, s.Progression).ServeHTTP)
		r.Get("/formation/matieres/{id}/chapitres", chapitres.New(logger, s.Progression).ServeHTTP)
		r.Get("/formation/chapitres/{id}/questions", questions.New(logger, s.Progression).ServeHTTP)
		r.Post("/formation/qcm/soumettre", submitqcm.New(logger, s.Progression).ServeHTTP)
		r.Get("/formation/ma-progression", maprogression.New(logger, s.Progression).ServeHTTP)
	})

	// Back office, admin role required.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
		r.Use(middlewarectx.AdminMiddleware(logger))

		r.Get("/dashboard/stats", dashboard.New(logger, s.Admin).ServeHTTP)
		r.Get("/inscriptions/en-attente", pendinginscriptions.New(logger, s.Admin).ServeHTTP)
		r.Post("/inscriptions/{id}/valider", validateinscription.New(logger, s.Admin).ServeHTTP)
		r.Get("/paiements/en-attente", pendingpaiements.New(logger, s.Admin).ServeHTTP)
		r.Post("/paiements/{id}/valider", validatepaiement.New(logger, s.Admin).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
