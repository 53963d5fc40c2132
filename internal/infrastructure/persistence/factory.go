package persistence

import (
	"context"
	"fmt"

	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/glowstock/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// NewStore builds the snapshot store selected by the storage config
func NewStore(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Storage.FilePath)
	case "redis":
		return NewRedisStore(ctx, cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Storage.RedisKey)
	case "sqlite":
		return NewGormStore(cfg.Storage.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Seed writes the configured business defaults into a store whose
// snapshot carries no data yet. A snapshot with any recorded entity is
// left alone: the persisted settings are the user's.
func Seed(ctx context.Context, store snapshot.Store, business config.BusinessConfig) error {
	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(snap.Items) > 0 || len(snap.Purchases) > 0 || len(snap.Sales) > 0 ||
		len(snap.Transactions) > 0 || len(snap.RevenueWithdrawals) > 0 {
		return nil
	}
	snap.Settings.WeightCostPerLb = decimal.NewFromFloat(business.WeightCostPerLb)
	snap.Settings.TaxRatePercent = decimal.NewFromFloat(business.TaxRatePercent)
	return store.Save(ctx, snap)
}
