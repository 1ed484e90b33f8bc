package metadata

// memo is a value computed on first access. The zero value is unset.
type memo[T any] struct {
	set   bool
	value T
}

func (m *memo[T]) get() (T, bool) {
	return m.value, m.set
}

func (m *memo[T]) store(v T) T {
	m.value = v
	m.set = true
	return v
}
