package catalogRepo

import (
	"context"

	"salonify/models"
)

// CatalogRepository covers branches, services and stylists. List methods return
// active entries only; Get methods return inactive ones too so callers can reject them.
type CatalogRepository interface {
	CreateBranch(ctx context.Context, b *models.Branch) error
	GetBranch(ctx context.Context, id string) (*models.Branch, error)
	ListBranches(ctx context.Context, skip int64, limit int) ([]models.Branch, int64, error)

	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, skip int64, limit int) ([]models.Service, int64, error)

	CreateStylist(ctx context.Context, s *models.Stylist) error
	GetStylist(ctx context.Context, id string) (*models.Stylist, error)
	// GetStylistByUserID resolves the stylist profile of a signed-in stylist account.
	GetStylistByUserID(ctx context.Context, userID string) (*models.Stylist, error)
	ListStylists(ctx context.Context, filter models.StylistFilter, skip int64, limit int) ([]models.Stylist, int64, error)
}
