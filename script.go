package trellis

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a scroll script.
type scriptStep struct {
	Action   string  `json:"action"`
	Index    int     `json:"index,omitempty"`
	Page     int     `json:"page,omitempty"`
	Axis     string  `json:"axis,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Z        float64 `json:"z,omitempty"`
	Velocity float64 `json:"velocity,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

type scrollScriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptAxes = map[string]Axis{"x": AxisX, "y": AxisY, "z": AxisZ}

// ScrollScript replays scroll requests across frames, for demos and
// automated visual checks. Attach it with Container.SetScrollScript. A step
// is only issued once the previous request has finished.
type ScrollScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScrollScript parses a JSON scroll script:
//
//	{"steps": [
//		{"action": "scrollTo", "index": 40},
//		{"action": "wait", "frames": 30},
//		{"action": "scrollBy", "x": -120},
//		{"action": "fling", "x": 800},
//		{"action": "flingTo", "axis": "x", "velocity": -1500},
//		{"action": "page", "page": 2},
//		{"action": "next"},
//		{"action": "prev"},
//		{"action": "cancel"}
//	]}
func LoadScrollScript(data []byte) (*ScrollScript, error) {
	var f scrollScriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scroll script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse scroll script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "scrollTo", "scrollBy", "fling", "page", "next", "prev", "cancel", "wait":
		case "flingTo":
			if _, ok := scriptAxes[st.Axis]; !ok {
				return nil, fmt.Errorf("parse scroll script: step %d: unknown axis %q", i, st.Axis)
			}
		default:
			return nil, fmt.Errorf("parse scroll script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScrollScript{steps: f.Steps}, nil
}

// SetScrollScript attaches a script. Its steps run from Advance, before
// scrolling is ticked. Passing nil detaches the current script.
func (c *Container) SetScrollScript(s *ScrollScript) {
	c.script = s
}

// Done reports whether every step has been executed and finished.
func (s *ScrollScript) Done() bool {
	return s.done
}

// step advances the script by one frame.
func (s *ScrollScript) step(c *Container) {
	if s.done {
		return
	}
	if c.scroller.IsScrolling() {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	sc := c.scroller
	switch st.Action {
	case "scrollTo":
		sc.ScrollToPosition(st.Index)
	case "scrollBy":
		sc.ScrollByOffset(Vec3{X: st.X, Y: st.Y, Z: st.Z})
	case "fling":
		sc.Fling(Vec3{X: st.X, Y: st.Y, Z: st.Z})
	case "flingTo":
		sc.FlingToPosition(scriptAxes[st.Axis], st.Velocity)
	case "page":
		sc.ScrollToPage(st.Page)
	case "next":
		sc.ScrollToNextItem()
	case "prev":
		sc.ScrollToPrevItem()
	case "cancel":
		sc.Cancel()
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && !sc.IsScrolling() {
		s.done = true
	}
}
