package dtoforge

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// ApplyDefaults fills zero-valued struct fields from their default
// tags. v must be a pointer; non-struct values are left untouched.
// Nested structs, slices of structs and struct map values are visited
// recursively.
func ApplyDefaults(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("ApplyDefaults requires a non-nil pointer, got %T", v)
	}
	return applyDefaults(rv.Elem())
}

func applyDefaults(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return applyDefaults(rv.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := applyDefaults(rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			elem := rv.MapIndex(key)
			if elem.Kind() != reflect.Struct {
				continue
			}
			// Map values are not addressable; mutate a copy and store it
			// back.
			cp := reflect.New(elem.Type()).Elem()
			cp.Set(elem)
			if err := applyDefaults(cp); err != nil {
				return err
			}
			rv.SetMapIndex(key, cp)
		}
		return nil
	case reflect.Struct:
		return applyStructDefaults(rv)
	default:
		return nil
	}
}

func applyStructDefaults(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if tag, ok := field.Tag.Lookup("default"); ok && fv.IsZero() {
			if err := setDefault(fv, tag); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			continue
		}
		if err := applyDefaults(fv); err != nil {
			return err
		}
	}
	return nil
}

func setDefault(fv reflect.Value, tag string) error {
	if fv.Kind() == reflect.Pointer {
		fv.Set(reflect.New(fv.Type().Elem()))
		return setDefault(fv.Elem(), tag)
	}
	if fv.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(tag)
		if err != nil {
			return fmt.Errorf("invalid duration default %q: %w", tag, err)
		}
		fv.SetInt(int64(d))
		return nil
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(tag)
	case reflect.Bool:
		b, err := strconv.ParseBool(tag)
		if err != nil {
			return fmt.Errorf("invalid bool default %q: %w", tag, err)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer default %q: %w", tag, err)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned default %q: %w", tag, err)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tag, 64)
		if err != nil {
			return fmt.Errorf("invalid float default %q: %w", tag, err)
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("cannot default a %s field", fv.Kind())
	}
	return nil
}
