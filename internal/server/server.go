package server

import (
	"context"
	"net/http"

	"royale-rivals/internal/middleware"
	"royale-rivals/internal/service"
	"royale-rivals/internal/syncer"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Syncer is the part of the scheduler the HTTP surface drives.
type Syncer interface {
	ForceSync(ctx context.Context, tag string) (syncer.ForceSyncResult, error)
	State() syncer.State
}

// Server holds the router and the services behind it.
type Server struct {
	router   *chi.Mux
	handler  http.Handler
	users    *service.UserService
	stats    *service.StatsService
	invites  *service.InviteService
	feedback *service.FeedbackService
	sync     Syncer
	logger   zerolog.Logger
}

func NewServer(
	users *service.UserService,
	stats *service.StatsService,
	invites *service.InviteService,
	feedback *service.FeedbackService,
	sync Syncer,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		users:    users,
		stats:    stats,
		invites:  invites,
		feedback: feedback,
		sync:     sync,
		logger:   logger.With().Str("component", "http").Logger(),
	}

	s.setupRoutes()

	// identity travels in X-User-ID, never in cookies, so credentials stay off
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.handler = c.Handler(s.router)
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.UserIdentity)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", s.handleCreateUser)
	r.Get("/users/{userID}/friends", s.handleListFriends)
	r.Get("/players/{tag}", s.handleDiscoverPlayer)
	r.Get("/players/{tag}/matches", s.handlePlayerMatches)
	r.Post("/sync/{tag}", s.handleForceSync)
	r.Get("/invites/{token}", s.handleGetInvite)

	// Caller identity required
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/users/me", s.handleMe)
		r.Put("/users/me/tag", s.handleLinkTag)
		r.Post("/friends", s.handleAddFriend)
		r.Get("/feed", s.handleFeed)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/h2h/{friendID}", s.handleH2H)
		r.Post("/invites", s.handleCreateInvite)
		r.Post("/invites/{token}/redeem", s.handleRedeemInvite)
		r.Post("/feedback", s.handleFeedback)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
