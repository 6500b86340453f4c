package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valoruf/valoruf/internal/cmf"
	"github.com/valoruf/valoruf/internal/rates"
	"github.com/valoruf/valoruf/internal/store"
)

// initStore opens the configured persistence backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "csv":
		return store.NewCSV(cfg.Store.CSVPath)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initRates builds the rate service over an open store.
func initRates(st store.Store) *rates.Service {
	if cfg.MissingCMFKey() {
		zap.L().Warn("cmf key not configured; uncached dates will not resolve")
	}

	return rates.NewService(rates.Options{
		Store: st,
		CMF: cmf.NewClient(cmf.Options{
			Key:            cfg.CMF.Key,
			BaseURL:        cfg.CMF.BaseURL,
			Timeout:        time.Duration(cfg.CMF.TimeoutSecs) * time.Second,
			RequestsPerSec: cfg.CMF.RequestsPerSec,
		}),
		TTL:           time.Duration(cfg.Cache.TTLSecs) * time.Second,
		MaxConcurrent: cfg.Rates.MaxConcurrent,
	})
}
