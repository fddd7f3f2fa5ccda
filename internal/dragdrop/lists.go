package dragdrop

// IndexOf returns the position of id in ids, or -1
func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Locate prefers hint when it still points at id, so stale UI indices
// fall back to a lookup by id.
func Locate(ids []string, id string, hint int) int {
	if hint >= 0 && hint < len(ids) && ids[hint] == id {
		return hint
	}
	return IndexOf(ids, id)
}

// RemoveAt returns a new slice without the element at i
func RemoveAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list))
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// InsertAt returns a new slice with v at index i, clamped to the list bounds
func InsertAt[T any](list []T, i int, v T) []T {
	i = clamp(i, 0, len(list))
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, v)
	return append(out, list[i:]...)
}

// Move relocates the element at from to index to
func Move[T any](list []T, from, to int) []T {
	v := list[from]
	return InsertAt(RemoveAt(list, from), to, v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
