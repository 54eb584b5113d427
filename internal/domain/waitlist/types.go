package waitlist

type Status string

const (
	StatusActive    Status = "Active"
	StatusNotified  Status = "Notified"
	StatusFulfilled Status = "Fulfilled"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusNotified, StatusFulfilled, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusFulfilled, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}
