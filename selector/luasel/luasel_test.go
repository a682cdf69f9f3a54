package luasel

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompile_Invalid(t *testing.T) {
	if _, err := Compile("return ((("); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestSelector_PathLikeScript(t *testing.T) {
	sel, err := Compile(`return state.activeUser.name`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	state := map[string]any{"activeUser": map[string]any{"name": "Sven"}}
	if got := sel.Evaluate(state); got != "Sven" {
		t.Errorf("Evaluate() = %v, want Sven", got)
	}
	if err := sel.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestSelector_DerivedTable(t *testing.T) {
	sel, err := Compile(`
		local names = {}
		for i, u in ipairs(state.users) do
			names[i] = string.upper(u.name)
		end
		return names
	`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	state := map[string]any{"users": []any{
		map[string]any{"name": "Joe"},
		map[string]any{"name": "Blorg"},
	}}

	want := []any{"JOE", "BLORG"}
	if got := sel.Evaluate(state); !reflect.DeepEqual(got, want) {
		t.Errorf("Evaluate() = %v, want %v", got, want)
	}
}

func TestSelector_StructState(t *testing.T) {
	type user struct {
		Name string `json:"name"`
	}
	type appState struct {
		Active user `json:"active"`
		Count  int
	}

	sel, err := Compile(`return state.active.name .. "/" .. state.Count`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	if got := sel.Evaluate(appState{Active: user{Name: "Sven"}, Count: 3}); got != "Sven/3" {
		t.Errorf("Evaluate() = %v, want Sven/3", got)
	}
}

func TestSelector_RuntimeErrorYieldsNil(t *testing.T) {
	sel, err := Compile(`return state.missing.deeper`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	if got := sel.Evaluate(map[string]any{}); got != nil {
		t.Errorf("Evaluate() = %v, want nil", got)
	}
	if sel.Err() == nil {
		t.Error("expected Err() to report the runtime failure")
	}

	// A later successful evaluation clears the error.
	if got := sel.Evaluate(map[string]any{"missing": map[string]any{"deeper": int64(7)}}); got != int64(7) {
		t.Errorf("Evaluate() = %v, want 7", got)
	}
	if err := sel.Err(); err != nil {
		t.Errorf("Err() = %v after success", err)
	}
}

func TestSelector_Closed(t *testing.T) {
	sel, err := Compile(`return 1`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	sel.Close()
	sel.Close() // idempotent

	if got := sel.Evaluate(nil); got != nil {
		t.Errorf("Evaluate() after Close = %v, want nil", got)
	}
	if !errors.Is(sel.Err(), ErrSelectorClosed) {
		t.Errorf("Err() = %v, want ErrSelectorClosed", sel.Err())
	}
}

func TestSelector_CircularTable(t *testing.T) {
	sel, err := Compile(`
		local t = {name = "Sven"}
		t.self = t
		return t
	`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	got, ok := sel.Evaluate(map[string]any{}).(map[string]any)
	if !ok {
		t.Fatalf("Evaluate() = %T, want map", got)
	}
	if got["name"] != "Sven" {
		t.Errorf("name = %v, want Sven", got["name"])
	}
	// The self-reference breaks to nil instead of recursing.
	if got["self"] != nil {
		t.Errorf("self = %v, want nil", got["self"])
	}
	if err := sel.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestSelector_SharedSubtable(t *testing.T) {
	// Two fields referencing one table are a diamond, not a cycle; the
	// second sibling reference still converts.
	sel, err := Compile(`
		local user = {name = "Fran"}
		return {a = user, b = user}
	`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	got, ok := sel.Evaluate(nil).(map[string]any)
	if !ok {
		t.Fatalf("Evaluate() = %T, want map", got)
	}
	for _, key := range []string{"a", "b"} {
		sub, _ := got[key].(map[string]any)
		if sub == nil || sub["name"] != "Fran" {
			t.Errorf("%s = %v, want Fran user", key, got[key])
		}
	}
}

func TestSelector_NilAndScalarState(t *testing.T) {
	sel, err := Compile(`if state == nil then return "empty" end; return state`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	defer sel.Close()

	if got := sel.Evaluate(nil); got != "empty" {
		t.Errorf("Evaluate(nil) = %v, want empty", got)
	}
	if got := sel.Evaluate(42); got != int64(42) {
		t.Errorf("Evaluate(42) = %v, want 42", got)
	}
	if got := sel.Evaluate(2.5); got != 2.5 {
		t.Errorf("Evaluate(2.5) = %v, want 2.5", got)
	}
}
