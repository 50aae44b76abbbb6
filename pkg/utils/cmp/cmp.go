package cmp

func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContentEq checks two slices hold the same elements,
// ignoring ordering.
func SliceContentEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	matched := make([]bool, len(b))
	for _, va := range a {
		found := false
		for nth, vb := range b {
			if !matched[nth] && va == vb {
				matched[nth] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapEqWith(a, b, func(x V, y V) bool { return x == y })
}

func MapEqWith[K comparable, V any, W any](a map[K]V, b map[K]W, pred func(V, W) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}

// MapGeq checks a contains every entry of b (a is a superset of b).
func MapGeq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	for k, vb := range b {
		va, ok := a[k]
		if !ok || va != vb {
			return false
		}
	}
	return true
}
