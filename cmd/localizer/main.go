// Command localizer serves catalog messages over HTTP, localized to the
// caller's Accept-Language header. Each request runs a short interceptor
// chain (tracing, logging, translation), making it a small end-to-end
// exercise of the engine.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"golang.org/x/text/language"

	"github.com/glimte/chainflow/chain"
	"github.com/glimte/chainflow/i18n"
	"github.com/glimte/chainflow/interceptors"
)

// Message is the chain subject: a key in, a localized text out.
type Message struct {
	Key    string       `json:"key"`
	Locale language.Tag `json:"locale"`
	Text   string       `json:"text"`
}

func (m *Message) MessageKey() string { return m.Key }

func (m *Message) SetLocalized(locale language.Tag, text string) {
	m.Locale = locale
	m.Text = text
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	shutdown, err := initTracer("localizer", logger)
	if err != nil {
		logger.Error("initializing tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("shutting down tracing", "error", err)
		}
	}()

	catalog, err := loadCatalog(cfg.I18n)
	if err != nil {
		logger.Error("loading catalog", "error", err, "path", cfg.I18n.Catalog)
		os.Exit(1)
	}

	pipeline := chain.NewPipeline[*Message]("localize",
		interceptors.NewTracingInterceptor[*Message](otel.GetTracerProvider()),
		interceptors.NewLoggingInterceptor[*Message](logger),
		i18n.NewTranslateInterceptor[*Message](catalog),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/messages/{key}", messageHandler(pipeline, logger))

	logger.Info("localizer listening", "addr", cfg.Server.Addr, "catalog", cfg.I18n.Catalog)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(cfg I18nConfig) (*i18n.Catalog, error) {
	var opts []i18n.CatalogOption
	if cfg.Charset != "" {
		opts = append(opts, i18n.WithCharset(cfg.Charset))
	}
	if cfg.Default != "" {
		tag, err := language.Parse(cfg.Default)
		if err != nil {
			return nil, err
		}
		opts = append(opts, i18n.WithFallback(tag))
	}
	return i18n.LoadCatalog(cfg.Catalog, opts...)
}

func messageHandler(pipeline *chain.Pipeline[*Message], logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := chain.NewScope()
		scope.Set(i18n.ScopeAcceptLanguage, r.Header.Get("Accept-Language"))

		msg, err := pipeline.Executor(scope).Execute(r.Context(), &Message{Key: chi.URLParam(r, "key")})
		if err != nil {
			logger.Warn("localization failed", "key", chi.URLParam(r, "key"), "error", err)
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(msg); err != nil {
			logger.Error("encoding response", "error", err)
		}
	}
}

// initTracer wires a stdout exporter; swap the exporter for a collector in
// real deployments.
func initTracer(serviceName string, logger *slog.Logger) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing initialized", "service", serviceName)
	return tp.Shutdown, nil
}
