package slices

// map each element in sli.
//
// args:
//   - sli : slice of `T`s
//   - mapper : mapping function from T to R
//
// return:
//
//	slice of `R`s.
//	each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// filter elements match with predicator.
//
// args:
//   - sli: slice
//   - predicator: function returning true for each element to remain
//
// return:
//
//	new slice containing the matching elements, in their input order.
func Filter[T any](sli []T, predicator func(v T) bool) []T {
	ret := []T{}
	for _, v := range sli {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// find the first element match with predicator.
//
// return:
//
//	(element, true) when found. Otherwise (zero-value, false).
func First[T any](sli []T, predicator func(v T) bool) (T, bool) {
	for _, v := range sli {
		if predicator(v) {
			return v, true
		}
	}
	return *new(T), false
}

// Contains returns true when sli has at least one element equal to value.
func Contains[T comparable](sli []T, value T) bool {
	for _, v := range sli {
		if v == value {
			return true
		}
	}
	return false
}

// convert slice to map.
//
// If keys given with getkey collides, a value coming latter takes over previous.
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	m := map[K]T{}
	for _, v := range sli {
		m[getkey(v)] = v
	}
	return m
}

// flatten map to slice of its keys.
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}
