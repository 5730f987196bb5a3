package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/cache"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/explorer"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/halving"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/service"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	cacheBackendFile   = "file"
	cacheBackendBadger = "badger"
	cacheBackendMemory = "memory"
)

type config struct {
	Addr         string        `long:"addr" env:"API_GATEWAY_ADDR" description:"grpc addr" default:":8000"`
	RestAddr     string        `long:"rest-addr" env:"API_GATEWAY_REST_ADDR" description:"rest addr" default:":8001"`
	Coin         string        `long:"coin" env:"CHAINSTATE_COIN" description:"coin label for metrics" default:"FIX"`
	ExplorerURL  string        `long:"explorer-url" env:"CHAINSTATE_EXPLORER_URL" description:"block explorer base URL" default:"https://explorer.fixedcoin.org"`
	HTTPTimeout  time.Duration `long:"http-timeout" env:"CHAINSTATE_HTTP_TIMEOUT" description:"timeout per explorer request" default:"5s"`
	UpstreamRPS  int           `long:"upstream-rps" env:"CHAINSTATE_UPSTREAM_RPS" description:"max explorer requests per second" default:"20"`
	CacheBackend string        `long:"cache-backend" env:"CHAINSTATE_CACHE_BACKEND" description:"state cache store" choice:"file" choice:"badger" choice:"memory" default:"file"`
	CachePath    string        `long:"cache-path" env:"CHAINSTATE_CACHE_PATH" description:"state file, or badger directory" default:"cache/state.json"`
	CacheTTL     time.Duration `long:"cache-ttl" env:"CHAINSTATE_CACHE_TTL" description:"how long a computed state is served" default:"5s"`
	BlockTime    time.Duration `long:"block-time" env:"CHAINSTATE_BLOCK_TIME" description:"nominal block interval" default:"600s"`
	SampleWindow uint64        `long:"sample-window" env:"CHAINSTATE_SAMPLE_WINDOW" description:"blocks sampled for the observed block rate" default:"100"`
	CORSOrigins  []string      `long:"cors-origin" env:"CHAINSTATE_CORS_ORIGINS" env-delim:"," description:"allowed CORS origins" default:"*"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api gateway failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("coin", cfg.Coin))
	clk := clock.System{}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("init state store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close state store", zap.Error(err))
		}
	}()

	stateCache, err := cache.NewStateCache(store, cfg.CacheTTL, clk, metrics.NewStateCache(cfg.CacheBackend), logger)
	if err != nil {
		return fmt.Errorf("init state cache: %w", err)
	}
	client, err := explorer.NewClient(explorer.Config{
		BaseURL: cfg.ExplorerURL,
		Timeout: cfg.HTTPTimeout,
		RPS:     cfg.UpstreamRPS,
	}, nil, metrics.NewExplorerClient(cfg.Coin), logger)
	if err != nil {
		return fmt.Errorf("init explorer client: %w", err)
	}
	svc, err := service.NewStateService(
		client,
		halving.FixedCoin(cfg.BlockTime),
		stateCache,
		metrics.NewChainState(cfg.Coin),
		service.Config{SampleWindow: cfg.SampleWindow, NominalBlockTime: cfg.BlockTime},
		clk,
		logger.Named("stateService"),
	)
	if err != nil {
		return fmt.Errorf("init state service: %w", err)
	}

	grpcServer, err := startGRPCServer(ctx, cfg.Addr, stateCache, logger)
	if err != nil {
		return err
	}
	defer grpcServer.GracefulStop()

	gw := gwruntime.NewServeMux()
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if err := blockinsight7000v1.RegisterExplorerServiceHandlerFromEndpoint(ctx, gw, cfg.Addr, opts); err != nil {
		return fmt.Errorf("register explorer handler: %w", err)
	}

	stateHandler := transport.NewStateHandler(svc, logger)
	mux := http.NewServeMux()
	mux.Handle("/api/state", stateHandler)
	mux.Handle("/state.json", stateHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", gw)

	s := &http.Server{
		Addr: cfg.RestAddr,
		Handler: cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}).Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func startGRPCServer(ctx context.Context, addr string, state transport.StateAge, logger *zap.Logger) (*grpc.Server, error) {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	blockinsight7000v1.RegisterExplorerServiceServer(grpcServer, transport.NewExplorerHandler(state))

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen grpc: %w", err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("Start GRPC server", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()
	return grpcServer, nil
}

func newStore(cfg config) (cache.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.CacheBackend {
	case cacheBackendFile:
		store, err := cache.NewFileStore(cfg.CachePath)
		return store, noop, err
	case cacheBackendBadger:
		store, err := cache.NewBadgerStore(cfg.CachePath, nil)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case cacheBackendMemory:
		return cache.NewMemoryStore(nil), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
