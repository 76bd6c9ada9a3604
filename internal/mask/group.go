// internal/mask/group.go
package mask

// Group partitions the 16 positions.
type Group uint8

const (
	GroupUnused Group = iota // 0–6
	GroupAction              // 7–9
	GroupMode                // 10–13
	GroupOption              // 14–15
)

func (g Group) String() string {
	switch g {
	case GroupAction:
		return "action"
	case GroupMode:
		return "mode"
	case GroupOption:
		return "option"
	default:
		return "unused"
	}
}

// GroupOf returns the group p belongs to.
func GroupOf(p Position) Group {
	switch {
	case p >= Purge && p <= Analyze:
		return GroupAction
	case p >= Discrete && p <= LoopB:
		return GroupMode
	case p >= Dilute && p <= Standard:
		return GroupOption
	default:
		return GroupUnused
	}
}

// Positions lists the positions of g in ascending order.
func (g Group) Positions() []Position {
	var lo, hi Position
	switch g {
	case GroupAction:
		lo, hi = Purge, Analyze
	case GroupMode:
		lo, hi = Discrete, LoopB
	case GroupOption:
		lo, hi = Dilute, Standard
	default:
		lo, hi = FirstPosition, Purge-1
	}
	out := make([]Position, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}
	return out
}

// ModePriority is the fixed order used to pick a dilute phase pair.
var ModePriority = [4]Position{Discrete, Septum, LoopA, LoopB}
