// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/biometric"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/geo"
	"github.com/attenda/attenda/internal/login"
	"github.com/attenda/attenda/internal/logging"
	"github.com/attenda/attenda/internal/observability"
	"github.com/attenda/attenda/internal/session"
	"github.com/attenda/attenda/internal/session/store"
	"github.com/attenda/attenda/internal/transport"
)

const serviceName = "attenda"

// app is everything a command needs once the configuration is loaded.
type app struct {
	controller *session.Controller
	store      *store.Service
	logger     *slog.Logger
	cleanup    func()
}

// buildApp wires the full object graph from the configuration. The
// returned cleanup closes storage connections and the metrics server.
func buildApp(ctx context.Context, cfg *config.Config, deps *AppDeps) (*app, error) {
	if deps == nil {
		deps = &AppDeps{}
	}
	if deps.GeoProvider == nil {
		deps.GeoProvider = &manualProvider{accuracy: cfg.Location.AccuracyThreshold}
	}
	if deps.BiometricPlatform == nil {
		deps.BiometricPlatform = noBiometrics{}
	}
	if deps.TierFactory == nil {
		deps.TierFactory = openTiers
	}

	logger := logging.Setup(serviceName, version, cfg.Log.Level, cfg.Log.Format, nil)

	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obs := observability.NewServer(cfg.MetricsAddr, nil)
		if _, err := obs.Start(); err != nil {
			return nil, err
		}
		cleanups = append(cleanups, func() { _ = obs.Stop(context.Background()) })
		metrics = obs.Metrics()
	}

	secrets, state, tierCleanup, err := deps.TierFactory(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, err
	}
	cleanups = append(cleanups, tierCleanup)

	sealer, err := store.NewSealerFromHex(cfg.Storage.SealingKey)
	if err != nil {
		cleanup()
		return nil, err
	}

	storeOpts := []store.Option{}
	if metrics != nil {
		storeOpts = append(storeOpts, store.WithWipeObserver(metrics))
	}
	sessions, err := store.NewService(secrets, state, sealer, logger, storeOpts...)
	if err != nil {
		cleanup()
		return nil, err
	}

	api := deps.API
	if api == nil {
		api, err = transport.NewClient(transport.Config{
			BaseURL:    cfg.API.BaseURL,
			Timeout:    cfg.API.Timeout,
			MaxRetries: cfg.API.MaxRetries,
		})
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	credentials, err := login.NewCredentialRepository(api, sessions, logger)
	if err != nil {
		cleanup()
		return nil, err
	}
	bioService, err := biometric.NewService(deps.BiometricPlatform)
	if err != nil {
		cleanup()
		return nil, err
	}
	biometrics, err := login.NewBiometricRepository(bioService, sessions, credentials, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	factory, err := session.NewFactory(credentials, biometrics)
	if err != nil {
		cleanup()
		return nil, err
	}
	gate, err := geo.NewGate(deps.GeoProvider, cfg.Location.AccuracyThreshold)
	if err != nil {
		cleanup()
		return nil, err
	}

	controllerOpts := []session.ControllerOption{}
	if metrics != nil {
		controllerOpts = append(controllerOpts, session.WithLoginObserver(metrics))
	}
	controller, err := session.NewController(gate, factory, sessions, logger, controllerOpts...)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &app{
		controller: controller,
		store:      sessions,
		logger:     logger,
		cleanup:    cleanup,
	}, nil
}

// openTiers opens the configured storage backend. The secrets and state
// tiers share a backend connection but use distinct keys.
func openTiers(ctx context.Context, cfg *config.Config) (store.KV, store.KV, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemoryKV(), store.NewMemoryKV(), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		kv, err := store.NewRedisKV(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		return kv, kv, func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, nil, oops.Code("AUTH_STORAGE_ERROR").
				With("backend", "postgres").
				Wrap(err)
		}
		kv, err := store.NewPostgresKV(pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return kv, kv, pool.Close, nil

	default:
		return nil, nil, nil, oops.Code("CONFIG_INVALID").
			With("backend", cfg.Storage.Backend).
			Errorf("unknown storage backend")
	}
}
