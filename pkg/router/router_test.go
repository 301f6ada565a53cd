package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/pkg/http"
)

func newRequest(method http.Method, path string) *http.Request {
	return &http.Request{Method: method, Target: path, Path: path, Version: http.Version11}
}

func text(body string) HandlerFunc {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return http.Text(http.StatusOK, body), nil
	}
}

func TestDispatch_LiteralExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	r := New()
	r.HandleFunc(http.MethodGet, "/health", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return http.Text(http.StatusOK, "ok"), nil
	})
	r.HandleFunc(http.MethodGet, "/", text("root"))

	resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/health"))
	if resp.StatusCode != http.StatusOK || string(resp.Body) != "ok" {
		t.Errorf("Dispatch() = %d %q, want 200 ok", resp.StatusCode, resp.Body)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}

	resp = r.Dispatch(context.Background(), newRequest(http.MethodGet, "/"))
	if string(resp.Body) != "root" {
		t.Errorf("Dispatch(/) body = %q, want root", resp.Body)
	}
}

func TestDispatch_Params(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/users/:id", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return http.Text(http.StatusOK, "user "+PathParam(req, "id")), nil
	})
	r.HandleFunc(http.MethodGet, "/repos/:owner/:name/issues", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		ps := ParamsOf(req)
		return http.Text(http.StatusOK, fmt.Sprintf("%s=%s %s=%s", ps[0].Name, ps[0].Value, ps[1].Name, ps[1].Value)), nil
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/users/42", 200, "user 42"},
		{"/users/a%20b", 200, "user a%20b"},
		{"/users/42/extra", 404, "Not Found"},
		{"/users/", 404, "Not Found"},
		{"/users", 404, "Not Found"},
		{"/Users/42", 404, "Not Found"},
		{"/repos/shapestone/httpd/issues", 200, "owner=shapestone name=httpd"},
		{"/repos/shapestone//issues", 404, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, tt.path))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if string(resp.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", resp.Body, tt.wantBody)
			}
		})
	}
}

func TestDispatch_NotFound(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodPost, "/items", text("created"))

	resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/items"))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if string(resp.Body) != "Not Found" {
		t.Errorf("Body = %q, want Not Found", resp.Body)
	}
	if ct := resp.Headers.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestDispatch_CustomNotFound(t *testing.T) {
	r := New(WithNotFound(HandlerFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return http.Text(http.StatusNotFound, "no route for "+req.Path), nil
	})))

	resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/missing"))
	if string(resp.Body) != "no route for /missing" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestDispatch_HandlerFailures(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/error", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return nil, errors.New("database unavailable")
	})
	r.HandleFunc(http.MethodGet, "/panic", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		panic("boom")
	})
	r.HandleFunc(http.MethodGet, "/nil", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return nil, nil
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/error", 500, "database unavailable"},
		{"/panic", 500, "handler panic: boom"},
		{"/nil", 204, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, tt.path))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if string(resp.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", resp.Body, tt.wantBody)
			}
		})
	}
}

func TestDispatch_PanicWithDeadline(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/panic", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		panic(fmt.Errorf("wrapped %w", errors.New("cause")))
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp := r.Dispatch(ctx, newRequest(http.MethodGet, "/panic"))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
}

func TestDispatch_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	r := New()
	r.HandleFunc(http.MethodGet, "/slow", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		<-release
		return http.Text(http.StatusOK, "late"), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp := r.Dispatch(ctx, newRequest(http.MethodGet, "/slow"))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Dispatch took %v after deadline", elapsed)
	}
}

func TestRegister_LastWinsInPlace(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/users/:id", text("first"))
	r.HandleFunc(http.MethodGet, "/about", text("about"))
	r.HandleFunc(http.MethodGet, "/users/:uid", text("second"))

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("Routes() = %v, want 2 routes", routes)
	}
	if routes[0].Pattern != "/users/:uid" || routes[1].Pattern != "/about" {
		t.Errorf("Routes() order = %v", routes)
	}
	if len(routes[0].Params) != 1 || routes[0].Params[0] != "uid" {
		t.Errorf("Params = %v, want [uid]", routes[0].Params)
	}

	req := newRequest(http.MethodGet, "/users/7")
	resp := r.Dispatch(context.Background(), req)
	if string(resp.Body) != "second" {
		t.Errorf("Body = %q, want second", resp.Body)
	}
	if PathParam(req, "uid") != "7" || PathParam(req, "id") != "" {
		t.Errorf("params = %v, want uid=7 only", ParamsOf(req))
	}
}

func TestRegister_FirstMatchWins(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/files/:name", text("param"))
	r.HandleFunc(http.MethodGet, "/files/readme", text("literal"))

	resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/files/readme"))
	if string(resp.Body) != "param" {
		t.Errorf("Body = %q, want param (registered first)", resp.Body)
	}
}

func TestRegister_MethodsAreSeparate(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/items", text("list"))
	r.HandleFunc(http.MethodPost, "/items", text("create"))

	for method, want := range map[http.Method]string{http.MethodGet: "list", http.MethodPost: "create"} {
		resp := r.Dispatch(context.Background(), newRequest(method, "/items"))
		if string(resp.Body) != want {
			t.Errorf("%s /items = %q, want %q", method, resp.Body, want)
		}
	}
}

func TestRegister_InvalidPattern(t *testing.T) {
	tests := []string{
		"",
		"users",
		"//a",
		"/a//b",
		"/:",
		"/:id/:id",
		"/:id.json",
	}

	r := New()
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			err := r.Register(http.MethodGet, pattern, text("x"))
			var pe *PatternError
			if !errors.As(err, &pe) {
				t.Fatalf("Register(%q) error = %v, want *PatternError", pattern, err)
			}
			if pe.Pattern != pattern {
				t.Errorf("Pattern = %q, want %q", pe.Pattern, pattern)
			}
		})
	}
	if len(r.Routes()) != 0 {
		t.Errorf("invalid patterns were registered: %v", r.Routes())
	}
}

func TestRegister_Errors(t *testing.T) {
	r := New()
	if err := r.Register("BREW", "/", text("x")); err == nil {
		t.Error("Register(BREW) error = nil")
	}
	if err := r.Register(http.MethodGet, "/", nil); err == nil {
		t.Error("Register(nil handler) error = nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("Handle with invalid pattern did not panic")
		}
	}()
	r.HandleFunc(http.MethodGet, "nope", text("x"))
}

func TestFreeze(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/", text("root"))
	r.Freeze()
	r.Freeze()

	if !r.Frozen() {
		t.Error("Frozen() = false after Freeze")
	}
	if err := r.Register(http.MethodGet, "/late", text("late")); !errors.Is(err, ErrFrozen) {
		t.Errorf("Register() after Freeze error = %v, want ErrFrozen", err)
	}
	if resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/")); resp.StatusCode != 200 {
		t.Errorf("frozen router StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	r := New()
	r.HandleFunc(http.MethodGet, "/echo/:n", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return http.Text(http.StatusOK, PathParam(req, "n")), nil
	})
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprint(i)
			resp := r.Dispatch(context.Background(), newRequest(http.MethodGet, "/echo/"+want))
			if string(resp.Body) != want {
				t.Errorf("Body = %q, want %q", resp.Body, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestDispatch_Logging(t *testing.T) {
	var routerBuf, ctxBuf bytes.Buffer
	r := New(WithLogger(zerolog.New(&routerBuf)))
	r.HandleFunc(http.MethodGet, "/fail", func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return nil, errors.New("nope")
	})

	r.Dispatch(context.Background(), newRequest(http.MethodGet, "/fail"))
	if !strings.Contains(routerBuf.String(), `"message":"handler failed"`) {
		t.Errorf("router log = %q, want handler failed entry", routerBuf.String())
	}

	connLog := zerolog.New(&ctxBuf).With().Str("conn", "c1").Logger()
	ctx := connLog.WithContext(context.Background())
	r.Dispatch(ctx, newRequest(http.MethodGet, "/missing"))
	out := ctxBuf.String()
	if !strings.Contains(out, `"message":"route not found"`) || !strings.Contains(out, `"conn":"c1"`) {
		t.Errorf("context log = %q, want route not found with conn field", out)
	}
}
