package reservation

type Status string

const (
	StatusActive     Status = "Active"
	StatusCheckedIn  Status = "CheckedIn"
	StatusCompleted  Status = "Completed"
	StatusExpired    Status = "Expired"
	StatusOverstayed Status = "Overstayed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCheckedIn, StatusCompleted, StatusExpired, StatusOverstayed, StatusCancelled:
		return true
	default:
		return false
	}
}

// OccupiesSlot reports whether a reservation in this status holds its slot for
// conflict purposes. The set {Active, CheckedIn, Overstayed} is the single
// source of truth for double-booking checks.
func (s Status) OccupiesSlot() bool {
	switch s {
	case StatusActive, StatusCheckedIn, StatusOverstayed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusExpired, StatusOverstayed, StatusCancelled:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}
