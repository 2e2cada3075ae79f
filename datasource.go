package trellis

// Item is a single laid-out element. The engine reads its size and writes
// back the computed placement and visibility; it never draws anything.
type Item interface {
	// Size returns the item's extent along axis.
	Size(axis Axis) float64
	// SetOffset sets the item's position along axis.
	SetOffset(axis Axis, offset float64)
	// SetRotation sets the item's rotation in radians about axis.
	SetRotation(axis Axis, radians float64)
	// SetVisibility reports the item's viewport membership.
	SetVisibility(v Visibility)
}

// DataSource exposes ordered access to items by data index. The data index
// doubles as the item's identity inside measurement caches.
type DataSource interface {
	// Get returns the item at index, or nil if there is none.
	Get(index int) Item
	// Len returns the number of items.
	Len() int
	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool
	// IsDynamic reports whether the source manages inserts and removals
	// itself. Dynamic sources report changes per item; static sources are
	// checked for staleness by comparing counts.
	IsDynamic() bool
}

// SliceDataSource is a DataSource over a slice of items.
type SliceDataSource struct {
	Items   []Item
	Dynamic bool
}

// NewSliceDataSource creates a static data source over items.
func NewSliceDataSource(items ...Item) *SliceDataSource {
	return &SliceDataSource{Items: items}
}

// Get returns the item at index, or nil when index is out of range.
func (s *SliceDataSource) Get(index int) Item {
	if index < 0 || index >= len(s.Items) {
		return nil
	}
	return s.Items[index]
}

func (s *SliceDataSource) Len() int { return len(s.Items) }
func (s *SliceDataSource) IsEmpty() bool { return len(s.Items) == 0 }
func (s *SliceDataSource) IsDynamic() bool { return s.Dynamic }

// Append adds items to the end of the source.
func (s *SliceDataSource) Append(items ...Item) {
	s.Items = append(s.Items, items...)
}

// Insert places item at index, shifting later items up.
func (s *SliceDataSource) Insert(index int, item Item) {
	index = max(0, min(index, len(s.Items)))
	s.Items = append(s.Items, nil)
	copy(s.Items[index+1:], s.Items[index:])
	s.Items[index] = item
}

// Remove deletes the item at index.
func (s *SliceDataSource) Remove(index int) {
	if index < 0 || index >= len(s.Items) {
		return
	}
	s.Items = append(s.Items[:index], s.Items[index+1:]...)
}
