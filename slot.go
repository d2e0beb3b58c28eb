package loosemac

// TimeToSlot maps an absolute tick t to a 1-indexed slot in [1, lambda].
// For t <= lambda it is the identity; past the first frame it wraps
// continuously, so slot numbering never resets to a dead zero value.
func TimeToSlot(t, lambda int) int {
	if t <= lambda {
		return t
	}
	return ((t - 1) % lambda) + 1
}
