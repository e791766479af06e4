// Package simserver is an in-memory development backend: the REST contract
// and the websocket event stream, enough to run the client stack end to end
// without the production service.
package simserver

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boardsync-dev/boardsync/shared/csrf"
	"github.com/boardsync-dev/boardsync/shared/domain"
	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
	"github.com/boardsync-dev/boardsync/shared/logger"
	"github.com/boardsync-dev/boardsync/shared/middleware"
	"github.com/boardsync-dev/boardsync/shared/middleware/metrics"
	"github.com/boardsync-dev/boardsync/shared/utils"
)

const (
	accessCookieName = "access_token"
	csrfCookieName   = "csrf_access_token"
	csrfHeaderName   = "X-CSRF-TOKEN-ACCESS"
)

type Server struct {
	state *State
	bus   *Bus

	mu       sync.Mutex
	sessions map[string]domain.UserId
	nextUser domain.UserId
}

func New() *Server {
	return &Server{
		state:    NewState(),
		bus:      NewBus(),
		sessions: make(map[string]domain.UserId),
	}
}

// State exposes the backing state so a seed routine or test can arrange it.
func (s *Server) State() *State { return s.state }

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", csrfHeaderName},
		AllowCredentials: true,
	}))

	// websocket upgrades need the raw ResponseWriter, so the stream route
	// stays outside the metrics wrapper
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/ws", s.handleWS)
	})

	r.Group(func(r chi.Router) {
		r.Use(metrics.Middleware)

		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Use(s.requireCSRF)

			r.Post("/logout", s.handleLogout)
			s.boardRoutes(r)
			s.listRoutes(r)
			s.cardRoutes(r)
			s.checklistRoutes(r)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// handleLogin accepts any credentials; this is a development server. The
// session and CSRF cookies mirror what the production backend issues.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token := uuid.NewString()
	csrfToken, err := csrf.GenerateToken()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	s.mu.Lock()
	s.nextUser++
	s.sessions[token] = s.nextUser
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name: accessCookieName, Value: token, Path: "/", HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name: csrfCookieName, Value: csrfToken, Path: "/",
	})
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
	logger.Log.Info("session opened", "user", creds.Username)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(accessCookieName); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: accessCookieName, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: csrfCookieName, Value: "", Path: "/", MaxAge: -1})
	utils.WriteJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) userId(r *http.Request) (domain.UserId, bool) {
	cookie, err := r.Cookie(accessCookieName)
	if err != nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[cookie.Value]
	return id, ok
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.userId(r); !ok {
			utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{
				Message: "unauthorized", StatusCode: 401,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCSRF enforces the double-submit pattern on mutating verbs: the
// header must echo the CSRF cookie.
func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			cookie, err := r.Cookie(csrfCookieName)
			if err != nil || !csrf.ValidateToken(cookie.Value, r.Header.Get(csrfHeaderName)) {
				utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{
					Message: "csrf token mismatch", StatusCode: 403,
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	boardId, err := strconv.ParseInt(r.URL.Query().Get("board_id"), 10, 64)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{
			Message: "bad board_id", StatusCode: 400,
		})
		return
	}
	s.bus.ServeWS(w, r, boardId)
}

func pathId(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "bad id", StatusCode: 400}
	}
	return id, nil
}
