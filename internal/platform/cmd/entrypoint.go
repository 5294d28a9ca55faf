// Package cmd holds the shared startup sequence for storefront binaries:
// env and flag loading, tracing setup and a logged service lifecycle.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/config"
	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/platform/otel"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
)

// ServiceStorefront names the storefront process in traces and logs.
const ServiceStorefront = "storefront"

// Finalizer is implemented by configs that fill derived fields and check
// themselves once env and flags have been applied.
type Finalizer interface {
	Finalize() error
}

// Load fills cfg from the environment, lets bind register flags seeded with
// those values, parses args and then finalizes cfg when it implements
// Finalizer.
func Load[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*flag.FlagSet, *T)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := config.ParseEnv(cfg); err != nil {
		return err
	}
	if bind != nil {
		bind(fs, cfg)
	}
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f, ok := any(cfg).(Finalizer); ok {
		if err := f.Finalize(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// Run configures tracing for service and runs it with a logger scoped to the
// service name. A run that ends because ctx was cancelled is a clean stop.
func Run(ctx context.Context, service string, log *logging.Logger, run func(context.Context, *logging.Logger) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logging.OrNop(log).Named(service)

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer flushTelemetry(log, shutdown)

	started := time.Now()
	log.Info("starting")
	err = run(ctx, log)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		log.Error("stopped with error", "error", err, "uptime", time.Since(started).String())
		return err
	}
	log.Info("stopped", "uptime", time.Since(started).String())
	return nil
}

func flushTelemetry(log *logging.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("flush telemetry", "error", err)
	}
}
