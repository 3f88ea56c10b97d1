package models

import "time"

// AuditEntry records who did what to which entity.
type AuditEntry struct {
	ID        string         `bson:"id" json:"id"`
	ActorID   string         `bson:"actor_id" json:"actor_id"`
	Action    string         `bson:"action" json:"action"`
	Entity    string         `bson:"entity" json:"entity"`
	EntityID  string         `bson:"entity_id" json:"entity_id"`
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}

const (
	AuditReservationCreated   = "reservation.created"
	AuditReservationConfirmed = "reservation.confirmed"
	AuditReservationCancelled = "reservation.cancelled"
	AuditPaymentAttempt       = "payment.attempt"
	AuditPaymentReconciled    = "payment.reconciled"
	AuditPaymentFailed        = "payment.failed"
	AuditPromotionCreated     = "promotion.created"
	AuditCatalogCreated       = "catalog.created"
)

// ActorSystem is used for entries written by webhooks and workers.
const ActorSystem = "system"
