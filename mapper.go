package scrubber

// Mapper converts between thumb pixel offsets and domain values. It is a plain
// value type with no hidden state, so a fresh one is built from the current
// layout and bounds whenever a conversion is needed.
//
// Note the range convention: Max is a span added to Min, so the total
// representable range is Min+Max (not Max-Min). Callers supply bounds
// accordingly; in practice Min is almost always 0.
type Mapper struct {
	ContainerWidth float32
	ThumbWidth     float32
	Min            float32
	Max            float32
}

// TotalRange returns the full extent of the value domain
func (m Mapper) TotalRange() float32 {
	return m.Min + m.Max
}

// usableWidth is the pixel distance the thumb's left edge can travel
func (m Mapper) usableWidth() float32 {
	w := m.ContainerWidth - m.ThumbWidth
	if w < 0 {
		return 0
	}
	return w
}

// ValueToOffset converts a domain value to the thumb's pixel offset.
// A zero total range pins the thumb at the left edge rather than dividing by zero.
func (m Mapper) ValueToOffset(value float32) float32 {
	total := m.TotalRange()
	if total == 0 {
		return 0
	}

	return (value / total) * m.usableWidth()
}

// OffsetToValue converts a thumb pixel offset back to a domain value,
// clamped into [Min, Min+Max]. An unusable (zero or negative) track width
// degrades to the low edge of the range.
func (m Mapper) OffsetToValue(px float32) float32 {
	total := m.TotalRange()
	usable := m.usableWidth()
	if usable <= 0 {
		return Clamp(0, m.Min, total)
	}

	return Clamp((px/usable)*total, m.Min, total)
}
