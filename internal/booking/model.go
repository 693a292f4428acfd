// Package booking owns the booking entity and its lifecycle: creation against
// the current availability picture and the state machine governing status
// transitions. Bookings are never deleted; terminal states are kept for
// history.
package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/interval"
)

// Booking is a committed appointment between a customer and a provider.
type Booking struct {
	ID                 uuid.UUID         `json:"id"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	ProviderID         uuid.UUID         `json:"provider_id"`
	ServiceID          uuid.UUID         `json:"service_id"`
	Interval           interval.Interval `json:"interval"`
	Status             Status            `json:"status"`
	PriceCents         int64             `json:"price_cents"`
	Notes              string            `json:"notes,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Role identifies which party performs a lifecycle action.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleSystem   Role = "system"
)

// Actor is the party requesting a transition; it drives notification
// addressing for cancellations.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleProvider, RoleSystem:
		return Role(s), true
	}
	return "", false
}
