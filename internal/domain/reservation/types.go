package reservation

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive follows the booking rule: anything not cancelled still blocks the room.
func (s Status) IsActive() bool {
	return s != StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Addon struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}
