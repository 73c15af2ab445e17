// Command unlockpath-server serves the planner over gRPC and exposes its
// Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/bayleafwalker/unlockpath/internal/config"
	"github.com/bayleafwalker/unlockpath/internal/metrics"
	"github.com/bayleafwalker/unlockpath/internal/rpc"
)

func main() {
	var (
		configPath  string
		grpcAddr    string
		metricsAddr string
		catalogPath string
		timeout     time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Config file path (YAML)")
	flag.StringVar(&grpcAddr, "listen", "", "gRPC listen address (default from config, :50051)")
	flag.StringVar(&metricsAddr, "metrics-bind-address", "", "Metrics listen address (default from config, :8080)")
	flag.StringVar(&catalogPath, "catalog", "", "ProviderCatalog manifest (default: built-in engineer catalog)")
	flag.DurationVar(&timeout, "search-timeout", 0, "Upper bound for a single search (0 disables)")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	log := zap.New(zap.UseFlagOptions(&opts)).WithName("unlockpath-server")

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Error(err, "unable to load config", "path", configPath)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Merge(&config.Config{
		Catalog: config.CatalogConfig{Path: catalogPath},
		Search:  config.SearchConfig{Timeout: timeout},
		Server:  config.ServerConfig{GRPCAddress: grpcAddr, MetricsAddress: metricsAddr},
	})
	if err := cfg.Validate(); err != nil {
		log.Error(err, "invalid configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(logr.NewContext(ctx, log), cfg); err != nil {
		log.Error(err, "server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logr.FromContextOrDiscard(ctx)

	cat, err := cfg.Catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", "version", cat.Version(), "providers", cat.Len(), "capabilities", len(cat.Kinds()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	planner := rpc.NewServer(cat,
		rpc.WithMetrics(metrics.New(reg)),
		rpc.WithAllPaths(cfg.Search.AllPathsEnabled()),
		rpc.WithTimeout(cfg.Search.Timeout),
	)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.LoggingInterceptor(log)))
	rpc.RegisterPlannerServer(grpcServer, planner)
	healthServer := health.NewServer()
	healthServer.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving gRPC", "address", lis.Addr().String())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		log.Info("serving metrics", "address", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		healthServer.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := metricsServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})
	return g.Wait()
}
