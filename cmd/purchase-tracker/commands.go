package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"purchase-tracker/internal/api"
	"purchase-tracker/internal/config"
	"purchase-tracker/internal/kafka"
	"purchase-tracker/internal/ledger"
	"purchase-tracker/internal/lock"
	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
	"purchase-tracker/internal/prompt"
	"purchase-tracker/internal/receipt"
	"purchase-tracker/internal/store"
	"purchase-tracker/internal/tracker"
)

// newTracker builds the service with the lock and publisher cfg asks for.
// The returned cleanup closes whatever was opened.
func newTracker(ctx context.Context, cfg *config.Config, log *logger.Logger) (*tracker.Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var locker tracker.Locker = lock.Noop{}
	if cfg.Lock.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Lock.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, cleanup, fmt.Errorf("redis connection error: %w", err)
		}
		log.Info("REDIS", "Store locking enabled on "+cfg.Lock.RedisAddr)
		closers = append(closers, func() { _ = client.Close() })
		locker = lock.NewRedis(client, cfg.Lock.TTL, log)
	}

	var publisher tracker.Publisher
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Failed to create topic %s: %v", cfg.Kafka.Topic, err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
			}
		})
		publisher = producer
	}

	return tracker.NewService(locker, publisher, log, os.Stdout), cleanup, nil
}

func newStore(ctx context.Context, cfg *config.Config, log *logger.Logger, target string) error {
	svc, cleanup, err := newTracker(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}
	fmt.Println("Welcome to the order creator!")
	return svc.NewStore(ctx, target, prompt.NewTerminal(os.Stdin, os.Stdout))
}

func updateStore(ctx context.Context, cfg *config.Config, log *logger.Logger, source, target string) error {
	svc, cleanup, err := newTracker(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}
	return svc.UpdateStore(ctx, source, target, prompt.NewTerminal(os.Stdin, os.Stdout))
}

func show(log *logger.Logger, path string) error {
	return tracker.NewService(nil, nil, log, os.Stdout).Show(path)
}

func exportSQLite(ctx context.Context, log *logger.Logger, source, dbPath string) error {
	orders, err := store.Load(source)
	if err != nil {
		return err
	}

	l, err := ledger.Open(dbPath, log)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.CreateSchema(ctx); err != nil {
		return err
	}
	if err := l.Export(ctx, source, orders); err != nil {
		return err
	}

	sum, err := l.Summary(ctx, source)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d orders (%d products, %d add-ons, total %s) from %s to %s\n",
		sum.Orders, sum.Products, sum.AddOns, models.Cents(sum.Total), source, dbPath)
	return nil
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger, path string) error {
	orders, err := store.Load(path)
	if err != nil {
		return err
	}

	handler := api.NewHandler(path, orders, log)
	server := &http.Server{
		Addr:         cfg.Serve.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Serve.ReadTimeout,
		WriteTimeout: cfg.Serve.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("SERVER", fmt.Sprintf("🚀 Serving %d orders from %s on %s", len(orders), path, cfg.Serve.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("SERVER", "✅ Shutdown complete")
	return nil
}

func writeReceipt(cfg *config.Config, log *logger.Logger, path, rawIndex, pngPath string) error {
	orders, err := store.Load(path)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 || index >= len(orders) {
		return fmt.Errorf("%s holds %d orders, %q is not one of their indexes", path, len(orders), rawIndex)
	}

	gen := receipt.NewGenerator(cfg.Receipt.Secret, cfg.Receipt.Size)
	png, err := gen.PNG(receipt.Summarize(path, index, orders[index]))
	if err != nil {
		return err
	}
	f, err := os.OpenFile(pngPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", pngPath, err)
	}
	if _, err := f.Write(png); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", pngPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", pngPath, err)
	}
	log.Info("RECEIPT", fmt.Sprintf("Wrote receipt for order %d of %s to %s", index, path, pngPath))
	return nil
}
