package models

// ConfirmationPayload is the snapshot queued for the booking confirmation email.
// It is self-contained so that delivery never has to read the database.
type ConfirmationPayload struct {
	Reservation Reservation   `json:"reservation"`
	Client      User          `json:"client"`
	Stylist     Stylist       `json:"stylist"`
	Service     Service       `json:"service"`
	Branch      Branch        `json:"branch"`
	Payment     PaymentRecord `json:"payment"`
}
