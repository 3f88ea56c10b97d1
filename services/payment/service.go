package payment

import (
	"time"

	catalogRepo "salonify/database/repository/catalog"
	paymentRepo "salonify/database/repository/payment"
	reservationRepo "salonify/database/repository/reservation"
	userRepo "salonify/database/repository/user"
	"salonify/services/audit"
	"salonify/services/events"
	"salonify/services/notification"
	"salonify/utils"
)

func NewPaymentService(
	reservations reservationRepo.ReservationRepository,
	payments paymentRepo.PaymentRepository,
	users userRepo.UserRepository,
	catalog catalogRepo.CatalogRepository,
	gateway Gateway,
	locker utils.Locker,
	recorder audit.Recorder,
	publisher events.Publisher,
	notifier notification.NotificationService,
) *DefaultPaymentService {
	return &DefaultPaymentService{
		Reservations: reservations,
		Payments:     payments,
		Users:        users,
		Catalog:      catalog,
		Gateway:      gateway,
		Locker:       locker,
		Audit:        recorder,
		Events:       publisher,
		Notifier:     notifier,
		Now:          time.Now,
	}
}
