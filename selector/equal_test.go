package selector

import "testing"

func TestSame_ReferenceIdentity(t *testing.T) {
	user := map[string]any{"name": "Sven"}
	sliceA := []string{"Joe", "Blorg"}

	tests := []struct {
		name string
		prev any
		next any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"equal strings", "Sven", "Sven", true},
		{"different strings", "Sven", "Fran", false},
		{"equal ints", 3, 3, true},
		{"int vs int64", 3, int64(3), false},
		{"same map reference", user, user, true},
		{"same slice reference", sliceA, sliceA, true},
		{"distinct empty slices", []string{}, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.prev, tt.next); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestSame_ShallowContainers(t *testing.T) {
	// Distinct slices with identical comparable elements are the same value.
	if !Same([]string{"Joe", "Blorg", "Khan"}, []string{"Joe", "Blorg", "Khan"}) {
		t.Error("element-equal string slices should be the same")
	}
	if Same([]string{"Joe"}, []string{"Blorg"}) {
		t.Error("different elements should not be the same")
	}
	if Same([]string{"Joe"}, []string{"Joe", "Blorg"}) {
		t.Error("different lengths should not be the same")
	}

	// Element comparison is identity, not recursion: distinct nested maps
	// with equal contents are different.
	inner := map[string]any{"name": "Sven"}
	if !Same([]any{inner}, []any{inner}) {
		t.Error("slices sharing the same nested reference should be the same")
	}
	if Same([]any{map[string]any{"name": "Sven"}}, []any{map[string]any{"name": "Sven"}}) {
		t.Error("shallow comparison must not recurse into nested containers")
	}
}

func TestSame_ShallowMaps(t *testing.T) {
	users := []any{"Joe"}

	a := map[string]any{"active": "Sven", "users": users}
	b := map[string]any{"active": "Sven", "users": users}
	if !Same(a, b) {
		t.Error("maps with identical top-level values should be the same")
	}

	c := map[string]any{"active": "Fran", "users": users}
	if Same(a, c) {
		t.Error("maps differing in a value should not be the same")
	}

	d := map[string]any{"active": "Sven"}
	if Same(a, d) {
		t.Error("maps differing in size should not be the same")
	}
}

func TestSame_MismatchedKinds(t *testing.T) {
	if Same([]string{"a"}, map[string]any{"a": 1}) {
		t.Error("slice vs map should not be the same")
	}
	if Same([]string{"a"}, []any{"a"}) {
		t.Error("differently typed slices should not be the same")
	}
}

func TestSame_Funcs(t *testing.T) {
	a, b := 1, 2
	f := func() { _ = a }
	g := func() { _ = b }
	if !Same(f, f) {
		t.Error("identical func references should be the same")
	}
	if Same(f, g) {
		t.Error("distinct funcs should not be the same")
	}
}
