package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	EventSlotBooked       = "booking.slot.booked.v1"
	EventBookingCancelled = "booking.cancelled.v1"
	EventConfigSynced     = "scheduling.config.synced.v1"
)
