package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketGraph/internal/reserve"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	marketGraph, err := a.buildGraph(ctx)
	if err != nil {
		return err
	}

	markets := marketGraph.Markets()
	a.logger.Info("watch start",
		zap.Int("markets", len(markets)),
		zap.Duration("sync_interval", a.cfg.SyncInterval),
	)

	watcher := reserve.NewWatcher(reserve.WatchConfig{
		Interval:     a.cfg.SyncInterval,
		MaxRetries:   a.cfg.MaxRetries,
		RetryBackoff: a.cfg.RetryBackoff,
	}, a.client, a.logger)

	if err := watcher.Run(ctx, markets); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
