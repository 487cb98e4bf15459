package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"fooddash/internal/models"
)

// newDeliveryOTP issues the 4-digit code that gates the delivered transition.
func newDeliveryOTP(now time.Time, ttl time.Duration) (models.DeliveryOTP, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return models.DeliveryOTP{}, fmt.Errorf("otp generate: %w", err)
	}
	return models.DeliveryOTP{
		Code:      fmt.Sprintf("%04d", n.Int64()),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// verifyOTP checks the supplied code against the order's stored one. Attempts
// are independent; a correct code keeps working until expiry.
func verifyOTP(ord models.Order, code string, now time.Time) error {
	if ord.OTP == nil {
		return fmt.Errorf("%w: no active delivery code for this order", ErrConflict)
	}
	if code == "" || code != ord.OTP.Code {
		return fmt.Errorf("%w: incorrect delivery code", ErrValidation)
	}
	if now.After(ord.OTP.ExpiresAt) {
		return fmt.Errorf("%w: delivery code has expired", ErrExpired)
	}
	return nil
}
