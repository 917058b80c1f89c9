package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"encorechain/config"
	"encorechain/core"
	"encorechain/core/state"
	"encorechain/native/passes"
	"encorechain/native/performance"
	"encorechain/observability"
	"encorechain/observability/logging"
	"encorechain/observability/otel"
	"encorechain/rpc"
	"encorechain/storage"
)

const serviceName = "encored"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup(serviceName, cfg.Env, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEndpoint != "" {
		shutdown, err := otel.Init(ctx, otel.Config{
			ServiceName: serviceName,
			Environment: cfg.Env,
			Endpoint:    cfg.OTELEndpoint,
			Insecure:    cfg.OTELInsecure,
			Metrics:     cfg.OTELMetrics,
			Traces:      cfg.OTELTraces,
		})
		if err != nil {
			logger.Error("Failed to initialise telemetry", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
			}
		}()
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	ledgerCfg := core.DefaultConfig()
	if cfg.CheckinCooldownHours > 0 {
		ledgerCfg.Performance = performance.Config{
			CheckinCooldown: time.Duration(cfg.CheckinCooldownHours) * time.Hour,
		}
	}
	if cfg.PremierBonus > 0 || cfg.VIPBonus > 0 {
		params := passes.DefaultParams()
		if cfg.PremierBonus > 0 {
			params.PremierBonus = new(big.Int).SetUint64(cfg.PremierBonus)
		}
		if cfg.VIPBonus > 0 {
			params.VIPBonus = new(big.Int).SetUint64(cfg.VIPBonus)
		}
		ledgerCfg.Passes = params
	}

	ledger, err := core.NewLedger(state.NewManager(db), ledgerCfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to build ledger: %v", err))
	}
	ledger.SetLogger(logger)
	ledger.SetMetrics(observability.Ledger())

	if err := applyGenesis(cfg, ledger, logger); err != nil {
		logger.Error("Failed to apply genesis", slog.Any("error", err))
		os.Exit(1)
	}

	rpcServer := rpc.NewServer(ledger, logger, cfg.RPCRateLimit, cfg.RPCRateBurst)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Method(http.MethodPost, "/", otelhttp.NewHandler(rpcServer.Handler(), "rpc"))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              cfg.RPCAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting JSON-RPC server", slog.String("address", cfg.RPCAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("RPC server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown failed", slog.Any("error", err))
	}
}

// applyGenesis seeds the authorities from config and optionally binds the
// reward gate to the ledger's module address.
func applyGenesis(cfg *config.Config, ledger *core.Ledger, logger *slog.Logger) error {
	owner, ownerSet, err := cfg.Owner()
	if err != nil {
		return err
	}
	organizer, organizerSet, err := cfg.Organizer()
	if err != nil {
		return err
	}
	if ownerSet && organizerSet {
		if err := ledger.InitGenesis(owner, organizer); err != nil {
			return err
		}
	} else if ownerSet || organizerSet {
		return fmt.Errorf("OwnerAddress and OrganizerAddress must be set together")
	} else {
		logger.Info("No genesis authorities configured, skipping genesis")
	}

	if cfg.AutoBindRewardAuthority {
		if _, bound, err := ledger.RewardAuthority(); err != nil {
			return err
		} else if !bound {
			if err := ledger.BindRewardAuthority(core.ModuleAddress); err != nil {
				return err
			}
			logger.Info("Bound reward authority to module address")
		}
	}
	return nil
}
