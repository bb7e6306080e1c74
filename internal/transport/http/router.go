package http

import (
	"net/http"

	"github.com/donationswap/api/internal/application/chat"
	"github.com/donationswap/api/internal/application/cleanup"
	"github.com/donationswap/api/internal/application/post"
	"github.com/donationswap/api/internal/application/rating"
	"github.com/donationswap/api/internal/application/recovery"
	"github.com/donationswap/api/internal/application/review"
	"github.com/donationswap/api/internal/config"
	"github.com/donationswap/api/internal/domain"
	jwtinfra "github.com/donationswap/api/internal/infrastructure/jwt"
	"github.com/donationswap/api/internal/infrastructure/smtp"
	"github.com/donationswap/api/internal/infrastructure/sns"
	"github.com/donationswap/api/internal/transport/http/handler"
	appmiddleware "github.com/donationswap/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router. Stores are the
// minimal interfaces from deps.go so tests can swap them out.
type Deps struct {
	UserRepo         UserRepository
	OTPRepo          OTPRepository
	TokenRepo        TokenRepository
	RatingRepo       RatingRepository
	PostRepo         PostRepository
	MessageRepo      MessageRepository
	VerificationRepo VerificationRepository
	AuditRepo        AuditRepository
	SweepRepo        SweepRepository
	Mailer           smtp.Mailer
	PushSender       sns.PushSender
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 1 request/second, burst of 3 — the on-demand sweep scans whole tables.
	cleanupRL := appmiddleware.NewRateLimiter(rate.Limit(1), 3)

	recoverySvc := recovery.NewService(deps.OTPRepo, deps.TokenRepo, deps.UserRepo, deps.Mailer)
	ratingSvc := rating.NewService(deps.RatingRepo, deps.UserRepo)
	cleanupSvc := cleanup.NewService(deps.SweepRepo)
	reviewSvc := review.NewService(deps.VerificationRepo, deps.UserRepo, deps.AuditRepo)
	chatSvc := chat.NewService(deps.MessageRepo, deps.UserRepo, deps.PushSender)
	postSvc := post.NewService(deps.PostRepo)

	healthH := handler.NewHealthHandler()
	recoveryH := handler.NewRecoveryHandler(recoverySvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	cleanupH := handler.NewCleanupHandler(cleanupSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	messageH := handler.NewMessageHandler(chatSvc)
	postH := handler.NewPostHandler(postSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/server-now", healthH.ServerNow)
		r.Post("/password-recovery/{action}", recoveryH.Action)
		r.With(cleanupRL.Limit).Post("/cleanup/run", cleanupH.Run)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Put("/users/{id}/ratings", ratingH.Rate)
			r.Delete("/users/{id}/ratings", ratingH.Unrate)
			r.Post("/messages", messageH.Send)
			r.Get("/messages", messageH.Inbox)
			r.Post("/posts", postH.Create)
			r.Get("/posts/{id}", postH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/verifications/{uid}/review", reviewH.Review)
			})
		})
	})

	return r
}
