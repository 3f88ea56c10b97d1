package handlers

import (
	"salonify/utils"
)

// HandlerBundle groups the endpoint handlers the router needs.
type HandlerBundle struct {
	Sessions   utils.SessionStore
	CookieName string

	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Promotions   *PromotionHandler
	Reservations *ReservationHandler
	Payments     *PaymentHandler
	Admin        *AdminHandler
	Health       *HealthHandler
}
