package handlers

import (
	"errors"
	"io"
	"net/http"

	"salonify/services/payment"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody matches the payload ceiling Stripe documents for webhook events.
const maxWebhookBody = 65536

type PaymentHandler struct {
	Payments payment.PaymentService
}

func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: svc}
}

// CreateIntentHandler returns the client secret for the reservation's payment intent.
func (h *PaymentHandler) CreateIntentHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req payment.CreateIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Payments.CreateIntent(c.Request.Context(), a, req.ReservationID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	if res.Payment != nil {
		utils.Success(c, "Reservation confirmed without charge", res)
		return
	}
	utils.Success(c, "Payment intent ready", res)
}

// ConfirmHandler attaches the payment method and confirms the intent.
func (h *PaymentHandler) ConfirmHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req payment.ConfirmRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Payments.Confirm(c.Request.Context(), a, req)
	if errors.Is(err, payment.ErrReconcileInProgress) {
		res, err = &payment.ConfirmResult{Status: payment.IntentProcessing}, nil
	}
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	if res.Status == payment.IntentProcessing {
		c.JSON(http.StatusAccepted, utils.Envelope{
			Success: true,
			Message: "Payment is processing. The reservation will be confirmed shortly.",
			Data:    gin.H{"status": res.Status, "payment_intent_id": req.PaymentIntentID},
		})
		return
	}
	getLogger(c).Info("Payment confirmed",
		zap.String("reservation_id", req.ReservationID),
		zap.String("payment_intent_id", req.PaymentIntentID),
	)
	utils.Success(c, "Payment confirmed", res.Payment)
}

// WebhookHandler verifies and applies a Stripe event.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Warn("Failed to read webhook body", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utils.Envelope{Success: false, Message: "Payload too large"})
		return
	}

	err = h.Payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		logger.Warn("Rejected webhook with invalid signature")
		c.AbortWithStatusJSON(http.StatusBadRequest, utils.Envelope{Success: false, Message: "Invalid signature"})
	case errors.Is(err, payment.ErrReconcileInProgress):
		// A non-2xx makes Stripe redeliver once the other worker is done.
		c.AbortWithStatusJSON(http.StatusConflict, utils.Envelope{Success: false, Message: "Reconciliation in progress"})
	case err != nil:
		utils.RespondError(c, err)
	default:
		c.JSON(http.StatusOK, utils.Envelope{Success: true, Message: "Received"})
	}
}

// respondPaymentError maps payment outcomes to 402/502 and defers everything else to RespondError.
func respondPaymentError(c *gin.Context, err error) {
	var perr *payment.Error
	if !errors.As(err, &perr) {
		utils.RespondError(c, err)
		return
	}

	status := http.StatusPaymentRequired
	data := gin.H{"status": string(perr.Kind)}
	if perr.PaymentIntentID != "" {
		data["payment_intent_id"] = perr.PaymentIntentID
	}
	switch perr.Kind {
	case payment.KindRequiresAction:
		data["client_secret"] = perr.ClientSecret
	case payment.KindProvider:
		status = http.StatusBadGateway
		getLogger(c).Error("Payment provider error", zap.Error(perr))
	default:
		getLogger(c).Info("Payment declined", zap.String("kind", string(perr.Kind)), zap.String("message", perr.Message))
	}
	c.AbortWithStatusJSON(status, utils.Envelope{
		Success: false,
		Message: perr.UserMessage(),
		Data:    data,
	})
}
