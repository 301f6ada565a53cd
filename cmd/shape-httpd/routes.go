package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shapestone/shape-httpd/pkg/http"
	"github.com/shapestone/shape-httpd/pkg/router"
	"github.com/shapestone/shape-httpd/pkg/server"
)

func registerRoutes(r *router.Router) error {
	routes := []struct {
		method  http.Method
		pattern string
		handler router.HandlerFunc
	}{
		{http.MethodGet, "/", hello},
		{http.MethodGet, "/users/:id", user},
		{http.MethodPost, "/echo", echo},
		{http.MethodGet, "/inspect", inspect},
		{http.MethodGet, "/routes", listRoutes(r)},
	}
	for _, rt := range routes {
		if err := r.Register(rt.method, rt.pattern, rt.handler); err != nil {
			return err
		}
	}
	return nil
}

func hello(ctx context.Context, req *http.Request) (*http.Response, error) {
	return http.Text(http.StatusOK, "Hello, World!"), nil
}

func user(ctx context.Context, req *http.Request) (*http.Response, error) {
	return jsonResponse(http.StatusOK, map[string]string{"id": router.PathParam(req, "id")})
}

// echo returns the request body with the request's Content-Type.
func echo(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp := http.NewResponse(http.StatusOK, req.Body)
	if ct := req.Headers.Get("Content-Type"); ct != "" {
		resp.Headers.Set("Content-Type", ct)
	}
	return resp, nil
}

// inspect describes the request as the server parsed it.
func inspect(ctx context.Context, req *http.Request) (*http.Response, error) {
	view, _ := http.NodeToInterface(http.RequestToNode(req)).(map[string]interface{})
	view["remote"] = req.RemoteAddr
	view["conn"] = server.ConnID(req)
	return jsonResponse(http.StatusOK, view)
}

func listRoutes(r *router.Router) router.HandlerFunc {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		var b strings.Builder
		for _, rt := range r.Routes() {
			b.WriteString(string(rt.Method))
			b.WriteByte(' ')
			b.WriteString(rt.Pattern)
			b.WriteByte('\n')
		}
		return http.Text(http.StatusOK, b.String()), nil
	}
}

func jsonResponse(status int, v interface{}) (*http.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	resp := http.NewResponse(status, body)
	resp.Headers.Set("Content-Type", "application/json")
	return resp, nil
}
