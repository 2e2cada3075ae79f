package trellis

import (
	"fmt"
	"math"
)

// Axis identifies one of the three orthogonal directions items can be
// arranged along.
type Axis uint8

const (
	AxisX Axis = iota // first axis (horizontal)
	AxisY             // second axis (vertical)
	AxisZ             // third axis (depth / stack)
)

// Axes lists every axis in order. Useful for per-axis loops.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// mustAxis panics on an axis value outside the closed set. Reaching it means
// an internal contract was violated, not that the host passed bad input.
func mustAxis(a Axis) {
	if a > AxisZ {
		panic(fmt.Sprintf("trellis: invalid axis %d", uint8(a)))
	}
}

// Vec3 is a per-axis triple used for viewport extents, offsets and
// velocities.
type Vec3 struct {
	X, Y, Z float64
}

// Get returns the component for axis a.
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	mustAxis(a)
	return 0
}

// Set sets the component for axis a.
func (v *Vec3) Set(a Axis, val float64) {
	switch a {
	case AxisX:
		v.X = val
	case AxisY:
		v.Y = val
	case AxisZ:
		v.Z = val
	default:
		mustAxis(a)
	}
}

// Unbounded is the viewport extent of an axis that never clips.
var Unbounded = math.Inf(1)

// Direction is the sense of travel through the data set.
type Direction int8

const (
	DirectionNone     Direction = 0
	DirectionForward  Direction = 1  // toward higher data indices
	DirectionBackward Direction = -1 // toward lower data indices
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// Orientation selects the axis a linear or curved layout arranges items along.
type Orientation uint8

const (
	Horizontal Orientation = iota // first axis
	Vertical                      // second axis
	Stack                         // third axis
)

// Axis returns the axis the orientation arranges items along.
func (o Orientation) Axis() Axis {
	switch o {
	case Vertical:
		return AxisY
	case Stack:
		return AxisZ
	default:
		return AxisX
	}
}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Stack:
		return "stack"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// axisSign maps linear (data-order) units onto an axis. Data order runs
// toward -Y so that item 0 sits at the top of a vertical list.
func axisSign(a Axis) float64 {
	if a == AxisY {
		return -1
	}
	return 1
}

// Gravity controls alignment when content is smaller than the viewport.
// Each edge gravity only applies to the orientation axis it names; Center
// and Fill apply to every axis.
type Gravity uint8

const (
	GravityCenter Gravity = iota // centered in the viewport (default)
	GravityLeft                  // X start
	GravityRight                 // X end
	GravityTop                   // Y start
	GravityBottom                // Y end
	GravityFront                 // Z start
	GravityBack                  // Z end
	GravityFill                  // padding grows so content spans the viewport
)

func (g Gravity) String() string {
	switch g {
	case GravityCenter:
		return "center"
	case GravityLeft:
		return "left"
	case GravityRight:
		return "right"
	case GravityTop:
		return "top"
	case GravityBottom:
		return "bottom"
	case GravityFront:
		return "front"
	case GravityBack:
		return "back"
	case GravityFill:
		return "fill"
	default:
		return fmt.Sprintf("Gravity(%d)", uint8(g))
	}
}

// align is gravity reduced to data-order terms.
type align uint8

const (
	alignCenter align = iota
	alignStart
	alignEnd
	alignFill
)

func (g Gravity) align() align {
	switch g {
	case GravityLeft, GravityTop, GravityFront:
		return alignStart
	case GravityRight, GravityBottom, GravityBack:
		return alignEnd
	case GravityFill:
		return alignFill
	default:
		return alignCenter
	}
}

// compatible reports whether g can be used with a layout along axis.
func (g Gravity) compatible(axis Axis) bool {
	switch g {
	case GravityCenter, GravityFill:
		return true
	case GravityLeft, GravityRight:
		return axis == AxisX
	case GravityTop, GravityBottom:
		return axis == AxisY
	case GravityFront, GravityBack:
		return axis == AxisZ
	default:
		return false
	}
}

// Visibility is the tri-state the engine assigns to items from viewport
// membership.
type Visibility uint8

const (
	Visible     Visibility = iota // entirely inside the viewport
	Invisible                     // measured but outside the viewport
	Placeholder                   // straddles a viewport edge; hosts may draw a stand-in
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	case Placeholder:
		return "placeholder"
	default:
		return fmt.Sprintf("Visibility(%d)", uint8(v))
	}
}

// eps is the tolerance used when comparing offsets and remaining distances.
const eps = 1e-6

func nearlyZero(v float64) bool { return math.Abs(v) < eps }

// signOf returns -1, 0 or 1.
func signOf(v float64) float64 {
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	default:
		return 0
	}
}
