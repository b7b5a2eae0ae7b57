package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dandihq/dandi-api/internal/api/handlers"
	"github.com/dandihq/dandi-api/internal/api/middleware"
	"github.com/dandihq/dandi-api/internal/apikey"
	"github.com/dandihq/dandi-api/internal/audit"
	"github.com/dandihq/dandi-api/internal/auth"
	"github.com/dandihq/dandi-api/internal/cache"
	"github.com/dandihq/dandi-api/internal/config"
	"github.com/dandihq/dandi-api/internal/github"
	"github.com/dandihq/dandi-api/internal/queue"
	"github.com/dandihq/dandi-api/internal/summarize"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	keys     *apikey.Service
	sessions *auth.Sessions
	limiter  *middleware.RateLimiter
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, queueClient *queue.Client, cfg *config.Config) *Router {
	var recorder apikey.UsageRecorder
	if queueClient != nil {
		recorder = queueClient
	}

	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		keys:     apikey.NewService(db, recorder),
		sessions: auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rt.limiter = middleware.NewRateLimiter(100, 200)
	r.Use(rt.limiter.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	var summaryCache *cache.Cache
	if rt.redis != nil {
		summaryCache = cache.New(rt.redis)
	}
	gatewayClient := github.NewClient(rt.cfg.GitHub)
	summarizer := summarize.NewGateway(rt.cfg.LLM, summaryCache)
	auditSvc := audit.NewService(rt.db)
	userSvc := auth.NewUserService(rt.db)
	oauth := auth.NewGoogleOAuth(rt.cfg.Auth)

	r.Route("/api", func(r chi.Router) {
		// Sign-in flow
		authH := handlers.NewAuthHandler(oauth, userSvc, rt.sessions)
		r.Route("/auth/google", func(r chi.Router) {
			r.Get("/login", authH.Login)
			r.Get("/callback", authH.Callback)
		})

		// Key validation (key carried in the request, no session)
		validateH := handlers.NewValidateHandler(rt.keys)
		r.Post("/validate", validateH.Validate)

		// Gated summarizer (key carried in a header)
		summarizerH := handlers.NewSummarizerHandler(rt.keys, gatewayClient, summarizer, rt.cfg.Auth.APIKeyHeader)
		r.Post("/github-summarizer", summarizerH.Summarize)

		// Dashboard key management (session required)
		keysH := handlers.NewKeysHandler(rt.keys, auditSvc)
		r.Route("/keys", func(r chi.Router) {
			r.Use(rt.sessions.Authenticate)
			r.Post("/", keysH.Create)
			r.Get("/", keysH.List)
			r.Get("/{id}", keysH.Get)
			r.Put("/{id}", keysH.Update)
			r.Delete("/{id}", keysH.Delete)
		})

		// Dashboard activity view (session required)
		auditH := handlers.NewAuditHandler(auditSvc)
		r.With(rt.sessions.Authenticate).Get("/audit", auditH.Recent)
	})

	return r
}

// Close stops background work owned by the router.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Stop()
	}
}
