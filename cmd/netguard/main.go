package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClipFinance/netguard/chainmanager"
	"github.com/ClipFinance/netguard/chainquery"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ClipFinance/netguard/config"
	"github.com/ClipFinance/netguard/connectionmonitor"
	"github.com/ClipFinance/netguard/journal"
	"github.com/ClipFinance/netguard/metrics"
	"github.com/ClipFinance/netguard/networkguard"
	"github.com/ClipFinance/netguard/notify"
	"github.com/ClipFinance/netguard/provider"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()
	log.SetOutput(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Network guard stopped with error")
	}
	log.Info("Network guard stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	target, err := cfg.Target()
	if err != nil {
		return err
	}

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout())
	client, err := provider.Dial(dialCtx, cfg.Provider.URL, log)
	cancel()
	if err != nil {
		return err
	}
	defer client.Close()
	client.WithMetrics(collector)

	wallet := provider.NewWallet(client)

	builder := networkguard.NewGuardBuilder(target).
		WithRegistry(chainmanager.NewKaiaRegistry(log)).
		WithSwitcher(wallet).
		WithAdder(wallet).
		WithNotifier(notify.NewLogNotifier(log)).
		WithMetrics(collector).
		WithLogger(log)

	if cfg.Journal.DSN != "" {
		j, err := journal.Open(ctx, cfg.Journal.DSN)
		if err != nil {
			return err
		}
		defer j.Close()
		if err := j.Migrate(ctx); err != nil {
			return err
		}
		builder.WithJournal(j)
		log.Info("Outcome journal enabled")
	}

	guard, err := builder.Build()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"chain_id": chainquery.QueryChainID(ctx, client, log),
		"target":   target.ID,
	}).Info("Connected to wallet provider")

	if cfg.Metrics.Enabled {
		server := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.WithField("addr", server.Addr).Info("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownServer(shutdownCtx, server, log)
		}()
	}

	monitor := connectionmonitor.NewConnectionMonitor(wallet, log, connectionmonitor.Config{
		PollInterval:         cfg.PollInterval(),
		ReconnectTimeout:     cfg.ReconnectTimeout(),
		MaxReconnectAttempts: cfg.Monitor.MaxReconnectAttempts,
	})

	events := make(chan types.ConnectionEvent, 16)
	sub := monitor.Subscribe(events)
	if err := monitor.Start(ctx); err != nil {
		sub.Unsubscribe()
		return err
	}
	defer func() {
		sub.Unsubscribe()
		monitor.Stop()
	}()

	err = networkguard.NewWatcher(guard, log).Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// shutdownServer stops server gracefully and logs a failed shutdown.
func shutdownServer(ctx context.Context, server *http.Server, log *logrus.Logger) {
	if err := server.Shutdown(ctx); err != nil {
		log.WithFields(logrus.Fields{
			"addr":  server.Addr,
			"error": err,
		}).Warn("Failed to shut down metrics server")
	}
}
