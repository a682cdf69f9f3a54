package selector

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Resolve walks a dot-separated path into state. Missing segments resolve to
// (nil, false), never an error. Native Go values are walked by reflection:
// map keys, exported struct fields, and numeric slice indexes. State held as
// JSON text ([]byte, json.RawMessage, or a valid JSON string) is resolved
// with gjson instead.
func Resolve(state any, path string) (any, bool) {
	if state == nil || path == "" {
		return nil, false
	}

	switch s := state.(type) {
	case json.RawMessage:
		return resolveJSON(gjson.GetBytes(s, path))
	case []byte:
		return resolveJSON(gjson.GetBytes(s, path))
	case string:
		if gjson.Valid(s) {
			return resolveJSON(gjson.Get(s, path))
		}
		return nil, false
	}

	current := reflect.ValueOf(state)
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}

	if !current.IsValid() {
		return nil, false
	}
	return current.Interface(), true
}

func resolveJSON(result gjson.Result) (any, bool) {
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// step descends one path segment, unwrapping pointers and interfaces first.
func step(v reflect.Value, segment string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		elem := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
		if !elem.IsValid() {
			return reflect.Value{}, false
		}
		return elem, true

	case reflect.Struct:
		field := v.FieldByName(segment)
		if !field.IsValid() || !field.CanInterface() {
			return reflect.Value{}, false
		}
		return field, true

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true

	default:
		return reflect.Value{}, false
	}
}
