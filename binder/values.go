// Copyright 2026 xgfone
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

package binder

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// bindValues binds the fields of the struct value to data by the tag.
//
// If the tag of a field is missing, use the field name case-insensitively.
func bindValues(value reflect.Value, data url.Values, tag string) error {
	vtype := value.Type()
	for i, num := 0, vtype.NumField(); i < num; i++ {
		ftype := vtype.Field(i)
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		name := ftype.Tag.Get(tag)
		if name == "-" {
			continue
		} else if name == "" {
			if _, ok := textUnmarshaler(field); !ok && field.Kind() == reflect.Struct {
				if err := bindValues(field, data, tag); err != nil {
					return err
				}
				continue
			}
			name = ftype.Name
		}

		inputs, ok := lookupValues(data, name)
		if !ok {
			continue
		}

		if field.Kind() == reflect.Slice && field.Type().Elem().Kind() != reflect.Uint8 {
			slice := reflect.MakeSlice(field.Type(), len(inputs), len(inputs))
			for j, input := range inputs {
				if err := setValue(slice.Index(j), input); err != nil {
					return fmt.Errorf("field '%s': %w", name, err)
				}
			}
			field.Set(slice)
		} else if err := setValue(field, inputs[0]); err != nil {
			return fmt.Errorf("field '%s': %w", name, err)
		}
	}

	return nil
}

func lookupValues(data url.Values, name string) ([]string, bool) {
	if vs, ok := data[name]; ok && len(vs) > 0 {
		return vs, true
	}

	for key, vs := range data {
		if len(vs) > 0 && strings.EqualFold(key, name) {
			return vs, true
		}
	}
	return nil, false
}

func textUnmarshaler(field reflect.Value) (encoding.TextUnmarshaler, bool) {
	if !field.CanAddr() {
		return nil, false
	}
	u, ok := field.Addr().Interface().(encoding.TextUnmarshaler)
	return u, ok
}

// setValue converts the string s to the type of the settable field
// and sets it.
func setValue(field reflect.Value, s string) (err error) {
	if u, ok := textUnmarshaler(field); ok {
		return u.UnmarshalText([]byte(s))
	}

	switch field.Kind() {
	case reflect.Ptr:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setValue(field.Elem(), s)

	case reflect.Interface:
		field.Set(reflect.ValueOf(s))

	case reflect.String:
		field.SetString(s)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported type '%s'", field.Type())
		}
		field.SetBytes([]byte(s))

	case reflect.Bool:
		var v bool
		if s != "" {
			if v, err = strconv.ParseBool(s); err != nil {
				return
			}
		}
		field.SetBool(v)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var v int64
		if s != "" {
			if v, err = strconv.ParseInt(s, 10, field.Type().Bits()); err != nil {
				return
			}
		}
		field.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var v uint64
		if s != "" {
			if v, err = strconv.ParseUint(s, 10, field.Type().Bits()); err != nil {
				return
			}
		}
		field.SetUint(v)

	case reflect.Float32, reflect.Float64:
		var v float64
		if s != "" {
			if v, err = strconv.ParseFloat(s, field.Type().Bits()); err != nil {
				return
			}
		}
		field.SetFloat(v)

	default:
		return fmt.Errorf("unsupported type '%s'", field.Type())
	}

	return nil
}
