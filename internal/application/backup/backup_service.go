package backup

import (
	"context"

	"github.com/glowstock/backend/internal/domain/shared"
	"github.com/glowstock/backend/internal/domain/snapshot"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BackupService handles whole-snapshot export/import plus the small
// singletons that ride along with it: settings and branches.
type BackupService struct {
	store  snapshot.Store
	logger *zap.Logger
}

// NewBackupService creates a new BackupService
func NewBackupService(store snapshot.Store, logger *zap.Logger) *BackupService {
	return &BackupService{store: store, logger: logger}
}

// Export serializes the current snapshot to its JSON backup form
func (s *BackupService) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Export(snap)
}

// Import replaces the whole persisted state with a parsed backup. A
// backup that fails to parse leaves the current state untouched.
func (s *BackupService) Import(ctx context.Context, data []byte) error {
	restored, err := snapshot.Import(data)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, restored); err != nil {
		return err
	}
	s.logger.Info("backup imported",
		zap.Int("items", len(restored.Items)),
		zap.Int("purchases", len(restored.Purchases)),
		zap.Int("sales", len(restored.Sales)),
	)
	return nil
}

// UpdateSettingsRequest represents a request to change business defaults
type UpdateSettingsRequest struct {
	WeightCostPerLb *float64 `json:"weightCostPerLb" binding:"omitempty,gt=0"`
	TaxRatePercent  *float64 `json:"taxRatePercent" binding:"omitempty,gte=0"`
}

// GetSettings returns the current business defaults
func (s *BackupService) GetSettings(ctx context.Context) (snapshot.Settings, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return snapshot.Settings{}, err
	}
	return snap.Settings, nil
}

// UpdateSettings changes the business defaults. Nil fields keep their
// current value.
func (s *BackupService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (snapshot.Settings, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return snapshot.Settings{}, err
	}
	next := snap.Clone()

	if req.WeightCostPerLb != nil {
		next.Settings.WeightCostPerLb = decimal.NewFromFloat(*req.WeightCostPerLb)
	}
	if req.TaxRatePercent != nil {
		next.Settings.TaxRatePercent = decimal.NewFromFloat(*req.TaxRatePercent)
	}

	if err := s.store.Save(ctx, next); err != nil {
		return snapshot.Settings{}, err
	}
	s.logger.Info("settings updated",
		zap.String("weight_cost_per_lb", next.Settings.WeightCostPerLb.String()),
		zap.String("tax_rate_percent", next.Settings.TaxRatePercent.String()),
	)
	return next.Settings, nil
}

// ListBranches returns all branches
func (s *BackupService) ListBranches(ctx context.Context) ([]snapshot.Branch, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Branches, nil
}

// CreateBranch adds a named branch
func (s *BackupService) CreateBranch(ctx context.Context, name string) (*snapshot.Branch, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := snap.Clone()

	branch := snapshot.Branch{ID: uuid.New(), Name: name}
	next.Branches = append(next.Branches, branch)

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	return &branch, nil
}

// DeleteBranch removes a branch by ID
func (s *BackupService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	next := snap.Clone()

	for i := range next.Branches {
		if next.Branches[i].ID == id {
			next.Branches = append(next.Branches[:i], next.Branches[i+1:]...)
			if err := s.store.Save(ctx, next); err != nil {
				return err
			}
			return nil
		}
	}
	return shared.ErrNotFound
}
