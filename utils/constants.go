// File: utils/constants.go
package utils

import "time"

// AuthSessionPrefix is the prefix used for Redis auth session keys.
const AuthSessionPrefix = "authSession:"

// LockPrefix is the prefix used for Redis lock keys.
const LockPrefix = "lock:"

// Context keys set by the auth middleware.
const (
	CtxUserID  = "userID"
	CtxRole    = "role"
	CtxSession = "session"
	CtxLogger  = "logger"
	CtxToken   = "token"
)

// ReconcileLockTTL bounds how long one instance may hold a payment reconciliation.
const ReconcileLockTTL = 30 * time.Second

// SlotLockTTL bounds how long a reservation create may hold a stylist slot.
const SlotLockTTL = 10 * time.Second
