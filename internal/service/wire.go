package service

import (
	"fmt"

	"github.com/andresuchdata/inventory-health/internal/cache"
	"github.com/andresuchdata/inventory-health/internal/config"
	"github.com/andresuchdata/inventory-health/internal/repository"
	"github.com/andresuchdata/inventory-health/internal/repository/postgres"
	"github.com/andresuchdata/inventory-health/internal/storage"
	"github.com/rs/zerolog/log"
)

// closers releases backends in reverse order of acquisition.
type closers []func() error

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.Warn().Err(err).Msg("failed to release backend")
		}
	}
}

// NewFromConfig builds the service with the database, cache and object
// storage backends enabled in cfg. The returned func releases them.
func NewFromConfig(cfg *config.Config) (*InventoryHealthService, func(), error) {
	var release closers
	noop := func() {}

	var repo repository.VoucherRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		release = append(release, db.Close)

		repo, err = postgres.NewVoucherRepository(db, cfg.Database.VoucherTable)
		if err != nil {
			release.close()
			return nil, noop, err
		}
	}

	voucherCache, err := cache.NewVoucherCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("voucher cache disabled: redis unavailable")
		voucherCache = cache.NewNoopVoucherCache()
	}
	release = append(release, voucherCache.Close)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		release.close()
		return nil, noop, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	return NewInventoryHealthService(cfg, repo, voucherCache, store), release.close, nil
}
