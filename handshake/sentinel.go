package handshake

import "reflect"

// defaultSentinel returns all ones for integer types and the zero value for
// every other type.
func defaultSentinel[T comparable]() T {
	var v T

	rv := reflect.ValueOf(&v).Elem()

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		rv.SetInt(-1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		rv.SetUint(^uint64(0))
	}

	return v
}
