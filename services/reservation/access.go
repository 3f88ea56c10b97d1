package reservation

import (
	"context"
	"errors"

	"salonify/database"
	"salonify/models"
	"salonify/utils"
)

// stylistID maps a stylist account to its stylist profile id.
func (s *DefaultReservationService) stylistID(ctx context.Context, actor models.Actor) (string, error) {
	st, err := s.Catalog.GetStylistByUserID(ctx, actor.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return "", utils.Forbidden("No stylist profile is linked to this account.")
	}
	if err != nil {
		return "", utils.Internal(err)
	}
	return st.ID, nil
}

// canAccess reports whether actor may see or cancel res.
func (s *DefaultReservationService) canAccess(ctx context.Context, actor models.Actor, res *models.Reservation) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleStylist:
		id, err := s.stylistID(ctx, actor)
		if err != nil {
			return false, err
		}
		return res.StylistID == id, nil
	default:
		return res.ClientID == actor.UserID, nil
	}
}

func (s *DefaultReservationService) load(ctx context.Context, actor models.Actor, id string) (*models.Reservation, error) {
	res, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	ok, err := s.canAccess(ctx, actor, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Foreign reservations look missing rather than forbidden.
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *DefaultReservationService) Get(ctx context.Context, actor models.Actor, id string) (*models.Reservation, error) {
	return s.load(ctx, actor, id)
}

func (s *DefaultReservationService) List(ctx context.Context, actor models.Actor, status models.ReservationStatus, skip int64, limit int) ([]models.Reservation, int64, error) {
	filter := models.ReservationFilter{Status: status}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleStylist:
		id, err := s.stylistID(ctx, actor)
		if err != nil {
			return nil, 0, err
		}
		filter.StylistID = id
	default:
		filter.ClientID = actor.UserID
	}
	items, total, err := s.Repo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, utils.Internal(err)
	}
	return items, total, nil
}
