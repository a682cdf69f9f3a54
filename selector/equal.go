package selector

import "reflect"

// Same reports whether two derived values are equal for notification
// purposes: reference identity first, then a one-level structural comparison
// for plain containers. Never deep: memoized selectors are trusted to return
// stable references when nothing changed, and comparison must stay cheap per
// change.
func Same(prev, next any) bool {
	if identical(prev, next) {
		return true
	}

	pv := reflect.ValueOf(prev)
	nv := reflect.ValueOf(next)
	if !pv.IsValid() || !nv.IsValid() || pv.Type() != nv.Type() {
		return false
	}

	switch pv.Kind() {
	case reflect.Slice:
		if pv.Len() != nv.Len() {
			return false
		}
		for i := 0; i < pv.Len(); i++ {
			if !identical(pv.Index(i).Interface(), nv.Index(i).Interface()) {
				return false
			}
		}
		return true

	case reflect.Map:
		if pv.Len() != nv.Len() {
			return false
		}
		iter := pv.MapRange()
		for iter.Next() {
			elem := nv.MapIndex(iter.Key())
			if !elem.IsValid() || !identical(iter.Value().Interface(), elem.Interface()) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// identical is the reference/value identity check applied at the top level
// and to each container element. Slices and maps compare by underlying
// pointer, functions by code pointer, everything comparable by ==.
func identical(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}

	switch av.Kind() {
	case reflect.Slice:
		return av.Len() == bv.Len() && (av.Len() == 0 || av.Pointer() == bv.Pointer())
	case reflect.Map, reflect.Func, reflect.Chan:
		return av.Pointer() == bv.Pointer()
	default:
		if !av.Type().Comparable() {
			return false
		}
		return a == b
	}
}
