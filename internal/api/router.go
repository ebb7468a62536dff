package api

import (
	"net/http"

	"github.com/careerhub/backend/internal/auth"
)

type Router struct {
	mux                 *http.ServeMux
	authHandlers        *auth.Handlers
	authService         *auth.Service
	jobHandlers         *JobHandlers
	attachmentHandlers  *AttachmentHandlers
	applicationHandlers *ApplicationHandlers
	profileHandlers     *ProfileHandlers
	wsHandler           http.HandlerFunc
	healthHandler       http.HandlerFunc
	livenessHandler     http.HandlerFunc
	readinessHandler    http.HandlerFunc
	metricsHandler      http.HandlerFunc
}

type RouterConfig struct {
	AuthHandlers        *auth.Handlers
	AuthService         *auth.Service
	JobHandlers         *JobHandlers
	AttachmentHandlers  *AttachmentHandlers
	ApplicationHandlers *ApplicationHandlers
	ProfileHandlers     *ProfileHandlers
	WSHandler           http.HandlerFunc
	HealthHandler       http.HandlerFunc
	LivenessHandler     http.HandlerFunc
	ReadinessHandler    http.HandlerFunc
	MetricsHandler      http.HandlerFunc
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		mux:                 http.NewServeMux(),
		authHandlers:        cfg.AuthHandlers,
		authService:         cfg.AuthService,
		jobHandlers:         cfg.JobHandlers,
		attachmentHandlers:  cfg.AttachmentHandlers,
		applicationHandlers: cfg.ApplicationHandlers,
		profileHandlers:     cfg.ProfileHandlers,
		wsHandler:           cfg.WSHandler,
		healthHandler:       cfg.HealthHandler,
		livenessHandler:     cfg.LivenessHandler,
		readinessHandler:    cfg.ReadinessHandler,
		metricsHandler:      cfg.MetricsHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	if r.healthHandler != nil {
		r.mux.HandleFunc("GET /health", r.healthHandler)
	}
	if r.livenessHandler != nil {
		r.mux.HandleFunc("GET /health/live", r.livenessHandler)
	}
	if r.readinessHandler != nil {
		r.mux.HandleFunc("GET /health/ready", r.readinessHandler)
	}
	if r.metricsHandler != nil {
		r.mux.HandleFunc("GET /metrics", r.metricsHandler)
	}

	// Account routes (no auth required)
	r.mux.HandleFunc("POST /api/v1/users/signup", r.authHandlers.Signup)
	r.mux.HandleFunc("POST /api/v1/users/login", r.authHandlers.Login)
	r.mux.HandleFunc("POST /api/v1/users/refresh-token", r.authHandlers.Refresh)

	// Account routes (auth required)
	r.mux.HandleFunc("POST /api/v1/users/logout", r.withAuth(r.authHandlers.Logout))
	r.mux.HandleFunc("POST /api/v1/users/change-password", r.withAuth(r.authHandlers.ChangePassword))
	r.mux.HandleFunc("GET /api/v1/users/me", r.withAuth(r.authHandlers.Me))

	// Job routes: browsing is public, writes require auth
	r.mux.HandleFunc("GET /api/v1/jobs", r.jobHandlers.ListJobs)
	r.mux.HandleFunc("GET /api/v1/jobs/{id}", r.jobHandlers.GetJob)
	r.mux.HandleFunc("GET /api/v1/jobs/{id}/attachment", r.attachmentHandlers.GetAttachment)
	r.mux.HandleFunc("POST /api/v1/jobs", r.withAuth(r.jobHandlers.CreateJob))
	r.mux.HandleFunc("PUT /api/v1/jobs/{id}", r.withAuth(r.jobHandlers.UpdateJob))
	r.mux.HandleFunc("DELETE /api/v1/jobs/{id}", r.withAuth(r.jobHandlers.DeleteJob))

	// Application routes (auth required)
	r.mux.HandleFunc("POST /api/v1/applications", r.withAuth(r.applicationHandlers.Apply))
	r.mux.HandleFunc("GET /api/v1/applications", r.withAuth(r.applicationHandlers.ListApplications))
	r.mux.HandleFunc("GET /api/v1/applications/{id}", r.withAuth(r.applicationHandlers.GetApplication))
	r.mux.HandleFunc("DELETE /api/v1/applications/{id}", r.withAuth(r.applicationHandlers.DeleteApplication))

	// Profile routes (auth required)
	r.mux.HandleFunc("GET /api/v1/profile", r.withAuth(r.profileHandlers.GetProfile))
	r.mux.HandleFunc("PUT /api/v1/profile", r.withAuth(r.profileHandlers.UpdateProfile))
	r.mux.HandleFunc("POST /api/v1/profile/image", r.withAuth(r.profileHandlers.UploadProfileImage))

	// WebSocket feed authenticates via query token inside the handler
	if r.wsHandler != nil {
		r.mux.HandleFunc("GET /api/v1/ws", r.wsHandler)
	}
}

func (r *Router) withAuth(next http.HandlerFunc) http.HandlerFunc {
	middleware := auth.Middleware(r.authService)
	return func(w http.ResponseWriter, req *http.Request) {
		middleware(http.HandlerFunc(next)).ServeHTTP(w, req)
	}
}
