package repository

import (
	auditRepo "salonify/database/repository/audit"
	catalogRepo "salonify/database/repository/catalog"
	paymentRepo "salonify/database/repository/payment"
	promotionRepo "salonify/database/repository/promotion"
	reservationRepo "salonify/database/repository/reservation"
	userRepo "salonify/database/repository/user"
)

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepository = userRepo.NewMongoUserRepo

// Re-export the ReservationRepository interface and constructor.
type ReservationRepository = reservationRepo.ReservationRepository

var NewMongoReservationRepo = reservationRepo.NewMongoReservationRepo

// Re-export the PromotionRepository interface and constructor.
type PromotionRepository = promotionRepo.PromotionRepository

var NewMongoPromotionRepo = promotionRepo.NewMongoPromotionRepo

// Re-export the PaymentRepository interface and constructor.
type PaymentRepository = paymentRepo.PaymentRepository

var NewMongoPaymentRepo = paymentRepo.NewMongoPaymentRepo

// Re-export the CatalogRepository interface and constructor.
type CatalogRepository = catalogRepo.CatalogRepository

var NewMongoCatalogRepo = catalogRepo.NewMongoCatalogRepo

// Re-export the AuditRepository interface and constructor.
type AuditRepository = auditRepo.AuditRepository

var NewMongoAuditRepo = auditRepo.NewMongoAuditRepo
