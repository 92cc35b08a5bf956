// Copyright 2025 Leadline AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wizard

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/leadline-ai/leadline/pkg/draft"
)

// setPath returns a new draft with value written at the dotted path,
// cloning every record along the path so that every previously
// returned snapshot stays structurally unchanged (copy-on-write).
//
// Path segments address struct fields by their json tag and map
// entries by key. Missing map intermediates are created as empty
// records; paths that would traverse a non-record (scalar or sequence)
// are rejected. The input draft is never mutated.
func setPath(d *draft.Draft, path string, value any) (*draft.Draft, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	segs := strings.Split(path, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("path %q has an empty segment", path)
		}
	}

	out, err := setValue(reflect.ValueOf(*d), segs, value)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", path, err)
	}
	next := out.Interface().(draft.Draft)
	return &next, nil
}

// setValue clones v along segs and writes the coerced leaf, returning
// the replacement value.
func setValue(v reflect.Value, segs []string, leaf any) (reflect.Value, error) {
	if len(segs) == 0 {
		return coerce(leaf, v.Type())
	}

	switch v.Kind() {
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		idx, ok := fieldIndexByTag(v.Type(), segs[0])
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field %q", segs[0])
		}
		field := clone.FieldByIndex(idx)
		next, err := setValue(field, segs[1:], leaf)
		if err != nil {
			return reflect.Value{}, err
		}
		field.Set(next)
		return clone, nil

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("cannot traverse map with %s keys", v.Type().Key())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len()+1)
		if !v.IsNil() {
			iter := v.MapRange()
			for iter.Next() {
				clone.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		key := reflect.ValueOf(segs[0]).Convert(v.Type().Key())
		if len(segs) == 1 {
			val, err := coerce(leaf, v.Type().Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			clone.SetMapIndex(key, val)
			return clone, nil
		}
		elem := clone.MapIndex(key)
		if !elem.IsValid() {
			var err error
			elem, err = emptyRecord(v.Type().Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("cannot create %q: %w", segs[0], err)
			}
		}
		next, err := setValue(elem, segs[1:], leaf)
		if err != nil {
			return reflect.Value{}, err
		}
		clone.SetMapIndex(key, next)
		return clone, nil

	case reflect.Pointer:
		var elem reflect.Value
		if v.IsNil() {
			elem = reflect.New(v.Type().Elem()).Elem()
		} else {
			elem = reflect.New(v.Type().Elem()).Elem()
			elem.Set(v.Elem())
		}
		next, err := setValue(elem, segs, leaf)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(v.Type().Elem())
		ptr.Elem().Set(next)
		return ptr, nil

	case reflect.Interface:
		if v.IsNil() {
			// Missing intermediate: create an empty record.
			m := reflect.ValueOf(map[string]any{})
			next, err := setValue(m, segs, leaf)
			if err != nil {
				return reflect.Value{}, err
			}
			return next, nil
		}
		next, err := setValue(v.Elem(), segs, leaf)
		if err != nil {
			return reflect.Value{}, err
		}
		return next, nil

	default:
		return reflect.Value{}, fmt.Errorf("cannot traverse %s through %q", v.Kind(), segs[0])
	}
}

// emptyRecord builds a zero record for a missing map intermediate.
func emptyRecord(t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Interface:
		return reflect.ValueOf(map[string]any{}), nil
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Struct:
		return reflect.New(t).Elem(), nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()), nil
		}
		return reflect.Value{}, fmt.Errorf("%s is not a record type", t)
	default:
		return reflect.Value{}, fmt.Errorf("%s is not a record type", t)
	}
}

// fieldIndexByTag resolves a json tag name to a struct field index
// chain, descending into anonymous embedded structs (ToolState and
// friends flatten their fields into the parent record).
func fieldIndexByTag(t reflect.Type, name string) ([]int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == name {
			return []int{i}, true
		}
		if f.Anonymous && tag == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if idx, ok := fieldIndexByTag(ft, name); ok {
					return append([]int{i}, idx...), true
				}
			}
		}
	}
	return nil, false
}

// coerce converts an arbitrary caller-supplied value (typically decoded
// from JSON) into the target type. Directly assignable and convertible
// scalars are converted in place; anything structured goes through a
// JSON round trip so nested records and sequences land in their typed
// shapes.
func coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if convertibleScalar(rv.Type(), t) {
		return rv.Convert(t), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot encode value for %s: %w", t, err)
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot assign %T to %s: %w", value, t, err)
	}
	return ptr.Elem(), nil
}

// convertibleScalar limits reflect conversion to same-family scalars so
// surprises like string->[]byte never happen implicitly.
func convertibleScalar(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	switch {
	case isNumeric(from.Kind()) && isNumeric(to.Kind()):
		return true
	case from.Kind() == reflect.String && to.Kind() == reflect.String:
		return true
	case from.Kind() == reflect.Bool && to.Kind() == reflect.Bool:
		return true
	default:
		return false
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
