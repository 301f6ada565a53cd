package router

import "github.com/rs/zerolog"

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for dispatch outcomes.
// Loggers carried in the dispatch context take precedence.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) {
		r.log = l
	}
}

// WithNotFound replaces the handler used when no route matches.
func WithNotFound(h Handler) Option {
	return func(r *Router) {
		r.notFound = h
	}
}
