package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ocx-chess/enginecore/internal/analysis"
	"github.com/ocx-chess/enginecore/internal/authclient"
	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/classifier"
	"github.com/ocx-chess/enginecore/internal/config"
	"github.com/ocx-chess/enginecore/internal/enginepool"
	"github.com/ocx-chess/enginecore/internal/gateway"
	"github.com/ocx-chess/enginecore/internal/requestqueue"
	"github.com/ocx-chess/enginecore/internal/shutdown"
	"github.com/ocx-chess/enginecore/internal/stats"
	"github.com/ocx-chess/enginecore/internal/suggestion"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, continuing with process environment")
	}
	cfg := config.Get()

	breakers := circuitbreaker.NewEnginePoolBreakers()

	suggestionPath, err := uciengine.ResolveBinaryPath(uciengine.KindSuggestion, cfg.Pools.Suggestion.BinaryPath)
	if err != nil {
		log.Fatalf("resolve suggestion engine binary: %v", err)
	}
	analysisPath, err := uciengine.ResolveBinaryPath(uciengine.KindAnalysis, cfg.Pools.Analysis.BinaryPath)
	if err != nil {
		log.Fatalf("resolve analysis engine binary: %v", err)
	}

	suggestionPool := enginepool.New(uciengine.KindSuggestion, cfg.Pools.Suggestion.Size, suggestionPath, breakers.Suggestion)
	analysisPool := enginepool.New(uciengine.KindAnalysis, cfg.Pools.Analysis.Size, analysisPath, breakers.Analysis)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := suggestionPool.Init(initCtx); err != nil {
		log.Fatalf("init suggestion pool: %v", err)
	}
	if err := analysisPool.Init(initCtx); err != nil {
		log.Fatalf("init analysis pool: %v", err)
	}
	initCancel()

	suggestionQueue := requestqueue.New()
	analysisQueue := requestqueue.New()

	runCtx, runCancel := context.WithCancel(context.Background())
	var dispatchers sync.WaitGroup

	runDispatcher := func(name string, d *requestqueue.Dispatcher) {
		dispatchers.Add(1)
		go func() {
			defer dispatchers.Done()
			d.Run(runCtx)
		}()
		slog.Info("dispatcher started", "queue", name)
	}
	runDispatcher("suggestion", requestqueue.NewDispatcher("suggestion", suggestionQueue, suggestionPool))
	runDispatcher("analysis", requestqueue.NewDispatcher("analysis", analysisQueue, analysisPool))

	verifier, err := buildVerifier(cfg)
	if err != nil {
		log.Fatalf("build auth verifier: %v", err)
	}

	suggestionHandler := suggestion.New(suggestionQueue, classifier.PassthroughClassifier{})
	analysisHandler := analysis.New(analysisQueue)

	handlers := map[string]gateway.Handler{
		"suggestion": suggestionHandler,
		"analyze":    analysisHandler,
	}
	cancelers := []gateway.Canceler{suggestionQueue, analysisQueue}

	gw := gateway.NewWithTimeouts(
		verifier, handlers, cancelers,
		time.Duration(cfg.Heartbeat.AuthTimeoutSec)*time.Second,
		time.Duration(cfg.Heartbeat.IntervalSec)*time.Second,
	)

	gatewayServer := &http.Server{
		Addr:         ":" + cfg.Server.GatewayPort,
		Handler:      gw,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	statsServer := stats.New(gw,
		map[string]*enginepool.Pool{"suggestion": suggestionPool, "analysis": analysisPool},
		map[string]*requestqueue.Queue{"suggestion": suggestionQueue, "analysis": analysisQueue},
		breakers,
	)
	statsHTTPServer := &http.Server{
		Addr:    ":" + cfg.Server.StatsPort,
		Handler: statsServer.Router(),
	}

	go func() {
		slog.Info("gateway listening", "addr", gatewayServer.Addr)
		if err := gatewayServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("gateway server failed: %v", err)
		}
	}()
	go func() {
		slog.Info("stats server listening", "addr", statsHTTPServer.Addr)
		if err := statsHTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("stats server failed: %v", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator := shutdown.New(
		[]*http.Server{gatewayServer, statsHTTPServer},
		[]shutdown.Pool{suggestionPool, analysisPool},
		runCancel,
		&dispatchers,
		time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second,
	)
	coordinator.Run(sigCtx)
}

func buildVerifier(cfg *config.Config) (authclient.Verifier, error) {
	switch cfg.Auth.Backend {
	case "grpc":
		return authclient.DialGRPCVerifier(cfg.Auth.GRPCAddr, time.Duration(cfg.Auth.DialTimeoutSec)*time.Second)
	default:
		slog.Warn("auth backend is mock, do not use in production", "backend", cfg.Auth.Backend)
		return authclient.MockVerifier{}, nil
	}
}
