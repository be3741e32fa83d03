package provider

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Request exposes the routing parameters of an inbound provider request.
type Request interface {
	Param(name string) string
}

// Params is a Request backed by a plain map.
type Params map[string]string

// Param implements Request.
func (p Params) Param(name string) string {
	return p[name]
}

// RouteParams adapts the chi URL parameters of r to a Request.
func RouteParams(r *http.Request) Request {
	return routeParams{r: r}
}

type routeParams struct {
	r *http.Request
}

func (p routeParams) Param(name string) string {
	return chi.URLParam(p.r, name)
}
