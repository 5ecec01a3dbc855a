package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// BookingService finalizes bookings. References are cosmetic and may repeat.
type BookingService struct {
	delay time.Duration
	rng   *lockedRand
}

// NewBookingService constructs a BookingService.
func NewBookingService(delay time.Duration) *BookingService {
	return &BookingService{delay: delay, rng: newLockedRand(rand.Uint64())}
}

// Complete returns a booking reference such as "SKY0042".
func (s *BookingService) Complete(ctx context.Context, req model.BookingRequest) (string, error) {
	if err := wait(ctx, s.delay); err != nil {
		return "", err
	}
	if req.OutboundFlight == nil {
		return "", ErrIncompleteBooking
	}
	return fmt.Sprintf("SKY%04d", s.rng.IntN(10000)), nil
}
