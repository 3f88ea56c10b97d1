package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonify/database"
	catalogRepo "salonify/database/repository/catalog"
	"salonify/models"
	"salonify/services/audit"
	"salonify/utils"

	"github.com/google/uuid"
)

// CatalogService manages branches, services and stylists.
type CatalogService interface {
	CreateBranch(ctx context.Context, actor models.Actor, req BranchRequest) (*models.Branch, error)
	GetBranch(ctx context.Context, id string) (*models.Branch, error)
	ListBranches(ctx context.Context, skip int64, limit int) ([]models.Branch, int64, error)

	CreateService(ctx context.Context, actor models.Actor, req ServiceRequest) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, skip int64, limit int) ([]models.Service, int64, error)

	CreateStylist(ctx context.Context, actor models.Actor, req StylistRequest) (*models.Stylist, error)
	GetStylist(ctx context.Context, id string) (*models.Stylist, error)
	ListStylists(ctx context.Context, filter models.StylistFilter, skip int64, limit int) ([]models.Stylist, int64, error)
}

type BranchRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Address  string `json:"address" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
}

type ServiceRequest struct {
	Name            string `json:"name" binding:"required,max=120"`
	Description     string `json:"description" binding:"omitempty,max=1000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0,max=600"`
	Price           int64  `json:"price" binding:"gte=0"`
	Currency        string `json:"currency" binding:"omitempty,len=3"`
}

type StylistRequest struct {
	UserID      string   `json:"user_id"`
	Name        string   `json:"name" binding:"required,max=120"`
	Email       string   `json:"email" binding:"omitempty,email"`
	BranchID    string   `json:"branch_id" binding:"required"`
	Bio         string   `json:"bio" binding:"omitempty,max=1000"`
	Specialties []string `json:"specialties"`
	ServiceIDs  []string `json:"service_ids" binding:"required,min=1"`
}

type DefaultCatalogService struct {
	Repo            catalogRepo.CatalogRepository
	Audit           audit.Recorder
	DefaultCurrency string
}

func NewCatalogService(repo catalogRepo.CatalogRepository, recorder audit.Recorder, defaultCurrency string) *DefaultCatalogService {
	return &DefaultCatalogService{Repo: repo, Audit: recorder, DefaultCurrency: defaultCurrency}
}

// activeOr404 hides inactive and missing entries alike from the public API.
func activeOr404[T any](item *T, active func(*T) bool, err error, what string) (*T, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound(what)
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	if !active(item) {
		return nil, utils.NotFound(what)
	}
	return item, nil
}

func (s *DefaultCatalogService) CreateBranch(ctx context.Context, actor models.Actor, req BranchRequest) (*models.Branch, error) {
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, utils.ValidationError("", map[string][]string{"timezone": {"The timezone must be a valid zone."}})
		}
	}
	now := time.Now()
	b := &models.Branch{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     req.Phone,
		Timezone:  req.Timezone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateBranch(ctx, b); err != nil {
		return nil, utils.Internal(err)
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditCatalogCreated, "branch", b.ID, map[string]any{"name": b.Name})
	return b, nil
}

func (s *DefaultCatalogService) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	b, err := s.Repo.GetBranch(ctx, id)
	return activeOr404(b, func(b *models.Branch) bool { return b.Active }, err, "Branch")
}

func (s *DefaultCatalogService) ListBranches(ctx context.Context, skip int64, limit int) ([]models.Branch, int64, error) {
	return s.Repo.ListBranches(ctx, skip, limit)
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, actor models.Actor, req ServiceRequest) (*models.Service, error) {
	currency := req.Currency
	if currency == "" {
		currency = s.DefaultCurrency
	}
	now := time.Now()
	svc := &models.Service{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Currency:        strings.ToLower(currency),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateService(ctx, svc); err != nil {
		return nil, utils.Internal(err)
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditCatalogCreated, "service", svc.ID, map[string]any{"name": svc.Name, "price": svc.Price})
	return svc, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, id)
	return activeOr404(svc, func(s *models.Service) bool { return s.Active }, err, "Service")
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, skip int64, limit int) ([]models.Service, int64, error) {
	return s.Repo.ListServices(ctx, skip, limit)
}

func (s *DefaultCatalogService) CreateStylist(ctx context.Context, actor models.Actor, req StylistRequest) (*models.Stylist, error) {
	fields := map[string][]string{}
	if _, err := s.GetBranch(ctx, req.BranchID); err != nil {
		if utils.AsAPIError(err).Status >= 500 {
			return nil, err
		}
		fields["branch_id"] = []string{"The selected branch id is invalid."}
	}
	for _, id := range req.ServiceIDs {
		if _, err := s.GetService(ctx, id); err != nil {
			if utils.AsAPIError(err).Status >= 500 {
				return nil, err
			}
			fields["service_ids"] = append(fields["service_ids"], "The selected service "+id+" is invalid.")
		}
	}
	if len(fields) > 0 {
		return nil, utils.ValidationError("", fields)
	}

	now := time.Now()
	st := &models.Stylist{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		BranchID:    req.BranchID,
		Bio:         req.Bio,
		Specialties: req.Specialties,
		ServiceIDs:  req.ServiceIDs,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateStylist(ctx, st); err != nil {
		return nil, utils.Internal(err)
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditCatalogCreated, "stylist", st.ID, map[string]any{"name": st.Name, "branch_id": st.BranchID})
	return st, nil
}

func (s *DefaultCatalogService) GetStylist(ctx context.Context, id string) (*models.Stylist, error) {
	st, err := s.Repo.GetStylist(ctx, id)
	return activeOr404(st, func(s *models.Stylist) bool { return s.Active }, err, "Stylist")
}

func (s *DefaultCatalogService) ListStylists(ctx context.Context, filter models.StylistFilter, skip int64, limit int) ([]models.Stylist, int64, error) {
	return s.Repo.ListStylists(ctx, filter, skip, limit)
}
