package model

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound   = errors.New("availability config not found")
	ErrSlotNotFound     = errors.New("time slot not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// ValidationError marks malformed input rejected before any mutation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientCapacityError is returned when a booking (or a participant
// increase) asks for more seats than the slot has left. Callers use the
// numbers to offer alternate slots.
type InsufficientCapacityError struct {
	Available int
	Required  int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: available %d, required %d", e.Available, e.Required)
}

func IsInsufficientCapacity(err error) bool {
	var ice *InsufficientCapacityError
	return errors.As(err, &ice)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrCustomerNotFound)
}
