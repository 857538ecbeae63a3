package model

import "time"

// DateOnly truncates a timestamp to its calendar date in UTC. All slot and
// booking dates are stored this way.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BreakPeriod is a sub-window within a config's hours during which no slots
// are generated. Times are minute offsets from midnight.
type BreakPeriod struct {
	ID          string
	StartMinute int
	EndMinute   int
}

// AvailabilityConfig is either a weekly recurring rule (DayOfWeek set) or a
// date-specific exception (Date set). Exactly one of the two is set.
type AvailabilityConfig struct {
	ID                  string
	TenantID            string
	DayOfWeek           *int // 0=Sunday .. 6=Saturday
	Date                *time.Time
	StartMinute         int
	EndMinute           int
	SlotDurationMinutes int
	CapacityPerSlot     int
	IsActive            bool
	IsException         bool
	Breaks              []BreakPeriod
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TimeSlot is a materialized bookable window on a concrete calendar date.
type TimeSlot struct {
	ID                   string
	TenantID             string
	AvailabilityConfigID *string // nil after the owning config is deleted
	DayOfWeek            *int
	Date                 time.Time
	StartMinute          int
	EndMinute            int
	TotalCapacity        int
	AvailableCapacity    int
	IsAvailable          bool
}

// Booking statuses. CANCELLED is terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// StatusOccupiesCapacity reports whether a booking in this status holds seats
// on its slot. COMPLETED still occupies: the seats were used.
func StatusOccupiesCapacity(s string) bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCompleted
}

type Booking struct {
	ID          string
	TenantID    string
	CustomerID  string
	TimeSlotID  string
	Date        time.Time
	StartMinute int
	Adults      int
	Children    int
	TotalPrice  string
	Status      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingWithCustomer joins a booking with the customer's identity for
// listing endpoints.
type BookingWithCustomer struct {
	Booking
	CustomerName  string
	CustomerPhone string
}

type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// WeeklyCapacity is the lightweight per-weekday capacity default used by the
// capacity oracle, independent of slot materialization.
type WeeklyCapacity struct {
	TenantID  string
	DayOfWeek int
	Limit     int
	Enabled   bool
}

type SpecialDateCapacity struct {
	TenantID    string
	Date        time.Time
	Limit       int
	Description string
}
