package api

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/saferide/bikerouter/pkg/routing"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxConcurrent int
	CORSOrigin    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:          addr,
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		MaxConcurrent: runtime.NumCPU() * 2,
	}
}

// Handlers holds the fasthttp handlers and their dependency, the
// Assembler.
type Handlers struct {
	asm *routing.Assembler
	sem chan struct{}
	cfg ServerConfig
}

// NewHandlers creates handlers backed by asm.
func NewHandlers(asm *routing.Assembler, cfg ServerConfig) *Handlers {
	return &Handlers{
		asm: asm,
		sem: make(chan struct{}, cfg.MaxConcurrent),
		cfg: cfg,
	}
}

// Route returns the fasthttp.RequestHandler multiplexing all endpoints,
// wrapped with the common middleware (security headers, CORS, concurrency
// limiting, panic recovery, access log).
func (h *Handlers) Route() fasthttp.RequestHandler {
	return h.withMiddleware(func(ctx *fasthttp.RequestCtx) {
		switch {
		case string(ctx.Path()) == "/v1/route" && ctx.IsPost():
			h.handleRoute(ctx)
		case string(ctx.Path()) == "/v1/health" && ctx.IsGet():
			h.handleHealth(ctx)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			writeJSON(ctx, ErrorResponse{Error: "not_found"})
		}
	})
}

func (h *Handlers) handleRoute(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		return
	}
	if ct := string(ctx.Request.Header.ContentType()); ct != "" && ct != "application/json" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSON(ctx, ErrorResponse{Error: "invalid_content_type"})
		return
	}

	var req RouteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSON(ctx, ErrorResponse{Error: "invalid_request"})
		return
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), h.cfg.ReadTimeout+h.cfg.WriteTimeout)
	defer cancel()

	resp, err := ComputeRoute(reqCtx, h.asm, req)
	if err != nil {
		ctx.SetStatusCode(classifyError(err))
		writeJSON(ctx, ErrorResponse{Error: err.Error()})
		return
	}

	ctx.SetStatusCode(fasthttp.StatusCreated)
	writeJSON(ctx, resp)
}

func (h *Handlers) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, HealthResponse{Status: "ok"})
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetBody(body)
}

// withMiddleware wraps a handler with security headers, CORS, a
// concurrency limiter, panic recovery, and an access log — the same
// concerns the teacher's net/http middleware applies, reimplemented over
// fasthttp's handler signature.
func (h *Handlers) withMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("X-Content-Type-Options", "nosniff")
		ctx.Response.Header.Set("X-Frame-Options", "DENY")
		ctx.Response.Header.Set("Cache-Control", "no-store")
		if h.cfg.CORSOrigin != "" {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", h.cfg.CORSOrigin)
		}

		select {
		case h.sem <- struct{}{}:
			defer func() { <-h.sem }()
		default:
			ctx.Response.Header.Set("Retry-After", "1")
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			writeJSON(ctx, ErrorResponse{Error: "service_unavailable"})
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v", rec)
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				writeJSON(ctx, ErrorResponse{Error: "internal_error"})
			}
		}()

		start := time.Now()
		next(ctx)
		log.Printf("%s %s %s", ctx.Method(), ctx.Path(), time.Since(start).Round(time.Microsecond))
	}
}

// NewServer builds the fasthttp.Server for handlers.
func NewServer(cfg ServerConfig, handlers *Handlers) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:      handlers.Route(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts srv and blocks until a shutdown signal arrives,
// then shuts down gracefully.
func ListenAndServe(srv *fasthttp.Server, addr string) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down...", sig)
		return srv.Shutdown()
	}
}
