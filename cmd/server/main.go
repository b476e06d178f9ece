package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ClipFinance/btc-bridge/api"
	"github.com/ClipFinance/btc-bridge/bridge"
	"github.com/ClipFinance/btc-bridge/config"
	"github.com/ClipFinance/btc-bridge/graceful"
	"github.com/ClipFinance/btc-bridge/logging"
	"github.com/ClipFinance/btc-bridge/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogFormat, cfg.LogLevel)

	metricsServer := metrics.StartMetricsServer(cfg.Metrics, []string{metrics.ServiceHTTP, metrics.ServiceBridge}, logger)
	defer func() {
		if metricsServer != nil {
			if err := metricsServer.Stop(context.Background()); err != nil {
				logger.Errorf("failed to stop metrics server: %v", err)
			}
		}
	}()

	client, err := bridge.NewClient(cfg.Bridge.URL, &http.Client{}, logger)
	if err != nil {
		logger.Fatalf("failed to initialize bridge client: %v", err)
	}
	client.SetRecorder(metrics.NewRecorder())

	srv := api.NewServer(
		cfg.Server,
		bridge.NewRequestBuilder(cfg.ProtocolConstants()),
		client,
		bridge.NewClassifier(cfg.OtaPrefix()),
		logger,
		metrics.HTTPMiddleware(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.Start(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-graceful.MakeSigintChan():
			logger.Infof("received exit signal: %v", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("failed to run server: %v", err)
	}
}
