// Package server is the portal's server-rendered front-end: login splash,
// role dashboards, appointment listings, and the slot calendar, all driven
// by the session store and the authenticated API client.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/medilink/portal/apiclient"
	"github.com/medilink/portal/appointments"
	"github.com/medilink/portal/auth"
	"github.com/medilink/portal/internal/config"
)

// Server routes portal requests. All remote API access flows through the
// session store and the authenticated client.
type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	store  *auth.Store
	appts  *appointments.Service
}

// New wires the portal: a session store over the given repo, an
// authenticated client over the store, and the appointment service over the
// client.
func New(cfg config.Config, repo auth.Repo) (*Server, error) {
	store, err := auth.NewStore(cfg.GetAuthBaseURL(), repo)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] create session store")
	}

	client := apiclient.New(cfg.GetAPIBaseURL(), store)

	appts, err := appointments.NewService(client)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] create appointment service")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		store:  store,
		appts:  appts,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Store exposes the session store for CLI commands sharing the wiring.
func (s *Server) Store() *auth.Store {
	return s.store
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
