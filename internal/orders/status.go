package orders

// Status is the preparation state of a placed order. Ids mirror the
// backend status table. Delivered is terminal: reaching it purges the
// order from the active set instead of archiving it.
type Status int

const (
	StatusCreated   Status = 1
	StatusCooking   Status = 2
	StatusReady     Status = 3
	StatusDelivered Status = 4
)

// Statuses lists every status in pipeline order, for the kitchen screen's
// status selector.
var Statuses = []Status{StatusCreated, StatusCooking, StatusReady, StatusDelivered}

// Label returns the board-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusCooking:
		return "cooking"
	case StatusReady:
		return "ready"
	case StatusDelivered:
		return "delivered"
	}
	return "unknown"
}

// Terminal reports whether the status ends the order's life.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

// StatusFromID maps a backend status id onto a Status.
func StatusFromID(id int) (Status, bool) {
	switch Status(id) {
	case StatusCreated, StatusCooking, StatusReady, StatusDelivered:
		return Status(id), true
	}
	return 0, false
}
