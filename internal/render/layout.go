package render

const (
	CardWidth       = 535
	minCardHeight   = 220
	cardHeaderSpace = 45
	rowHeight       = 25
	rowBaseOffset   = 15
	rowBaseDelayMS  = 210
	rowDelayStepMS  = 100
)

type Direction int

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Layout holds every toggle-dependent coordinate of the card.
type Layout struct {
	TitleX, TitleY   int
	TextX            int
	DataX            int
	IconX            int
	ImageX, ImageY   int
	UserX, UserY     int
	FollowX, FollowY int
	RowX             int
}

// layouts is indexed by [direction][animationsDisabled][reversed].
var layouts [2][2][2]Layout

func init() {
	for _, dir := range []Direction{LTR, RTL} {
		for _, disabled := range []bool{false, true} {
			for _, reversed := range []bool{false, true} {
				layouts[dir][b2i(disabled)][b2i(reversed)] = layoutFor(dir == RTL, disabled, reversed)
			}
		}
	}
}

// ComputeLayout returns the coordinates for one toggle triple.
func ComputeLayout(dir Direction, animationsDisabled, reversed bool) Layout {
	if dir != RTL {
		dir = LTR
	}
	return layouts[dir][b2i(animationsDisabled)][b2i(reversed)]
}

// layoutFor defines each coordinate over only the toggles it depends on.
// Static cards drop the entry offsets the animations start from.
func layoutFor(rtl, static, reversed bool) Layout {
	avatarX := pick(static, pick(reversed, 412, 122), pick(reversed, 417, 127))
	lineX := pick(static, pick(reversed, 412, 122), pick(reversed, 402, 112))

	return Layout{
		TitleX:  pick(static, pick(rtl, 520, 15), pick(rtl, 510, 5)),
		TitleY:  pick(static, 0, -10),
		TextX:   pick(rtl, 225, 20),
		DataX:   pick(rtl, 25, 220),
		IconX:   pick(rtl, 235, -5),
		ImageX:  avatarX,
		ImageY:  pick(static, 70, 65),
		UserX:   lineX,
		UserY:   pick(static, 140, 130),
		FollowX: lineX,
		FollowY: pick(static, 161, 151),
		RowX:    pick(reversed, pick(rtl, 10, 0), 230),
	}
}

// CanvasHeight is the card height for n visible rows.
func CanvasHeight(n int) int {
	return max(minCardHeight, cardHeaderSpace+n*rowHeight)
}

// RowOffset is the vertical offset of the row at index.
func RowOffset(index int) int {
	return rowBaseOffset + index*rowHeight
}

// RowDelay is the fade-in delay in milliseconds of the row at index.
func RowDelay(index int) int {
	return rowBaseDelayMS + index*rowDelayStepMS
}

func pick(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
