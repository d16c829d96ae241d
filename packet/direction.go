package packet

// Direction of travel, referenced to the locomotive's forward direction
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// Opposite returns the other direction
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}
