package slot

// Type classifies a physical parking slot. The hourly rate is attached to the
// slot row, not to the type, so facilities can price the same type differently.
type Type string

const (
	TypeStandard   Type = "Standard"
	TypePriority   Type = "Priority"
	TypeAccessible Type = "Accessible"
	TypeCompact    Type = "Compact"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeStandard, TypePriority, TypeAccessible, TypeCompact:
		return true
	default:
		return false
	}
}

// DisplayStatus is a coarse occupancy cue shown to operators. Booking
// conflicts are decided by reservation time overlap, never by this field.
type DisplayStatus string

const (
	DisplayFree     DisplayStatus = "Free"
	DisplayReserved DisplayStatus = "Reserved"
	DisplayOccupied DisplayStatus = "Occupied"
)

func (s DisplayStatus) String() string {
	return string(s)
}

func (s DisplayStatus) IsValid() bool {
	switch s {
	case DisplayFree, DisplayReserved, DisplayOccupied:
		return true
	default:
		return false
	}
}
