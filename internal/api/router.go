package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"signedsubmit/internal/api/handlers"
	"signedsubmit/internal/api/middleware"
)

const DefaultSubmissionPath = "/apply/submission"

type Dependencies struct {
	SubmissionPath    string
	SubmissionHandler *handlers.SubmissionHandler
	HealthHandler     *handlers.HealthHandler
	RateLimiter       *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	path := deps.SubmissionPath
	if path == "" {
		path = DefaultSubmissionPath
	}

	router.GET("/health", chain(deps.HealthHandler.Check, middleware.RequestLogger))

	submitMiddleware := []func(http.HandlerFunc) http.HandlerFunc{middleware.RequestLogger}
	if deps.RateLimiter != nil {
		submitMiddleware = append(submitMiddleware, deps.RateLimiter.Handle)
	}
	submitMiddleware = append(submitMiddleware, middleware.RequireJSON)

	router.POST(path, chain(deps.SubmissionHandler.Submit, submitMiddleware...))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}
