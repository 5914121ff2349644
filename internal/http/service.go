package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/storefront-catalog/api-contract"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Dependencies are the collaborators the handlers call into.
type Dependencies struct {
	ProductSvc service.ProductService
	UploadSvc  service.UploadService
	InquirySvc service.InquiryService
	CredStore  auth.CredentialStore
	Health     db.HealthChecker
	Validator  validator.Validator
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	appCfg    config.App
	uploadCfg config.Upload
	logger    *slog.Logger
	metrics   *metric.Metrics

	deps Dependencies
}

type CleanupFunc func(ctx context.Context) error

// handlerFunc is a handler whose error is rendered by the service.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func New(
	cfg config.HTTP,
	appCfg config.App,
	uploadCfg config.Upload,
	log *slog.Logger,
	deps Dependencies,
) *Service {
	return &Service{
		cfg:       cfg,
		appCfg:    appCfg,
		uploadCfg: uploadCfg,
		logger:    log.With(slog.String("service", "http")),
		metrics:   metric.New(prometheus.DefaultRegisterer),
		deps:      deps,
	}
}

// Handler builds the router with every middleware and route mounted.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r, "Storefront Catalog API", apicontract.GetSpecBytes())
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	s.logger.InfoContext(ctx, "http server started", slog.String("addr", srv.Addr))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger, !s.appCfg.IsProduction()),
		middleware.CorrelationID(),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) error {
	validate, err := middleware.OpenAPIValidator(apicontract.GetSpecBytes(), s.handleRequestError)
	if err != nil {
		return fmt.Errorf("openapi validator: %w", err)
	}

	health := newHealthHandler(s.deps.Health)
	products := newProductHandler(s.deps.ProductSvc, s.deps.InquirySvc)
	uploads := newUploadHandler(s.deps.UploadSvc, s.uploadCfg.MaxSize)
	admin := newAdminHandler(s.deps.CredStore, s.deps.Validator)

	r.Get("/", health.Root)
	r.Get("/healthz", s.wrap(health.Healthz))

	r.Route("/api", func(r chi.Router) {
		r.Use(validate)

		r.Get("/test", s.wrap(health.Test))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.wrap(products.ListProducts))
			r.Post("/", s.wrap(products.CreateProduct))
			r.Get("/{id}", s.wrap(products.GetProduct))
			r.Put("/{id}", s.wrap(products.ReplaceProduct))
			r.Patch("/{id}", s.wrap(products.PatchProduct))
			r.Delete("/{id}", s.wrap(products.DeleteProduct))
			r.Get("/{id}/inquiry", s.wrap(products.GetProductInquiry))
		})

		r.Post("/upload", s.wrap(uploads.UploadImage))
		r.Post("/admin/login", s.wrap(admin.Login))
	})

	publicPath := "/" + strings.Trim(s.uploadCfg.PublicPath, "/")
	r.Handle(publicPath+"/*", http.StripPrefix(publicPath, noDirListing(http.FileServer(http.Dir(s.uploadCfg.Dir)))))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	return nil
}

func (s *Service) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleResponseError(w, r, apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err))
}

// handleResponseError renders err as JSON. Outside production a 5xx also
// carries the stack of this goroutine at render time; the wrapped message is
// what locates the failing layer.
func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)
	if res.StatusCode >= http.StatusInternalServerError && !s.appCfg.IsProduction() {
		res = res.WithStack(string(debug.Stack()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

// noDirListing answers 404 for directory paths instead of an index page.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
