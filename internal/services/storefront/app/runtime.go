// Package app assembles the storefront process: storage backends, command
// handlers, subscription consumers, the JSON HTTP API and a gRPC health
// endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/api/httpapi"
	"github.com/louisbranch/storefront/internal/services/storefront/commands"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/value"
	"github.com/louisbranch/storefront/internal/services/storefront/projection"
	"github.com/louisbranch/storefront/internal/services/storefront/reactor"
	"github.com/louisbranch/storefront/internal/services/storefront/subscription"
)

const healthService = "storefront.runtime"

// RuntimeConfig controls storefront startup.
type RuntimeConfig struct {
	HTTPAddr       string
	GRPCHealthAddr string

	EventStore  string
	SQLitePath  string
	PostgresDSN string

	CheckpointStore string
	RedisAddr       string
	RedisPublish    bool
	KafkaBrokers    []string
	KafkaTopic      string

	PollInterval       time.Duration
	BatchSize          int
	StrictCurrency     bool
	RebuildProjections bool
}

// Runtime holds the wired components of one storefront process.
type Runtime struct {
	cfg      RuntimeConfig
	log      *logging.Logger
	backends *backends

	handler     http.Handler
	projections *subscription.Consumer
	reactions   *subscription.Consumer
	projector   *projection.Projector
}

// New opens backends and wires every component. The caller must Close it.
func New(ctx context.Context, cfg RuntimeConfig, log *logging.Logger) (*Runtime, error) {
	log = logging.OrNop(log)

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	handlers := commands.New(commands.Options{
		Store:     b.events,
		Publisher: b.publisher,
		Logger:    log,
		Tracer:    otel.Tracer("github.com/louisbranch/storefront"),
	})
	queries := projection.NewQueries(b.docs)
	projector := projection.NewProjector(b.docs, log)
	confirmations := reactor.NewOrderConfirmation(queries, reactor.NewLogMailer(log), log)

	consumerCfg := subscription.Config{PollInterval: cfg.PollInterval, BatchSize: cfg.BatchSize}
	consumerCfg.Name = projection.SubscriptionName
	projections, err := subscription.New(consumerCfg, b.events, projector, b.checkpoints, log)
	if err != nil {
		b.close(log)
		return nil, err
	}
	consumerCfg.Name = reactor.SubscriptionName
	reactions, err := subscription.New(consumerCfg, b.events, confirmations, b.checkpoints, log)
	if err != nil {
		b.close(log)
		return nil, err
	}

	return &Runtime{
		cfg:      cfg,
		log:      log,
		backends: b,
		handler: httpapi.NewHandler(httpapi.Deps{
			Commands:   handlers,
			Queries:    queries,
			Logger:     log,
			Currencies: value.CurrencyPolicy{Strict: cfg.StrictCurrency},
			Ready:      b.ping,
		}),
		projections: projections,
		reactions:   reactions,
		projector:   projector,
	}, nil
}

// Handler returns the HTTP API.
func (r *Runtime) Handler() http.Handler {
	return r.handler
}

// Close releases backends.
func (r *Runtime) Close() {
	r.backends.close(r.log)
}

// Rebuild drops every read model and replays the whole log into them.
func (r *Runtime) Rebuild(ctx context.Context) error {
	started := time.Now()
	if err := r.projector.Reset(ctx); err != nil {
		return err
	}
	if err := r.projections.CatchUp(ctx); err != nil {
		return fmt.Errorf("replay projections: %w", err)
	}
	r.log.Info("projections rebuilt", "position", r.projections.Position(), "duration", time.Since(started))
	return nil
}

// Serve runs consumers and both servers until ctx ends, then shuts down.
func (r *Runtime) Serve(ctx context.Context, httpListener, grpcListener net.Listener) error {
	if r.cfg.RebuildProjections {
		if err := r.Rebuild(ctx); err != nil {
			return err
		}
		if err := r.projections.Start(ctx, r.projections.Position()); err != nil {
			return err
		}
	} else if err := r.projections.StartFromCheckpoint(ctx); err != nil {
		return err
	}
	defer r.projections.Stop()
	if err := r.reactions.StartFromCheckpoint(ctx); err != nil {
		return err
	}
	defer r.reactions.Stop()

	httpServer := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.log.Info("http server listening", "addr", httpListener.Addr().String())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		r.log.Info("grpc health server listening", "addr", grpcListener.Addr().String())
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc health: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		healthServer.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})
	return g.Wait()
}

// Run starts the storefront and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg RuntimeConfig, log *logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return fmt.Errorf("http address is required")
	}
	if strings.TrimSpace(cfg.GRPCHealthAddr) == "" {
		return fmt.Errorf("grpc health address is required")
	}

	runtime, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer runtime.Close()

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	grpcListener, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		_ = httpListener.Close()
		return fmt.Errorf("listen on %s: %w", cfg.GRPCHealthAddr, err)
	}
	return runtime.Serve(ctx, httpListener, grpcListener)
}
