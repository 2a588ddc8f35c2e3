package scrubber

// Clamp pins value into the inclusive [min, max] range
func Clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
