package handler

import (
	"net/http"

	"lendledger/core"
	"lendledger/handler/auth"
	"lendledger/handler/render"
	"lendledger/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	session  core.Session
	services rest.Services
}

// New new server function
func New(session core.Session, services rest.Services) Server {
	return Server{
		session:  session,
		services: services,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse)
	r.Use(auth.HandleAuthentication(s.session))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w)
	})

	r.Mount("/", rest.Handle(s.services))
	return r
}
