package native

import (
	"fmt"
	"reflect"
)

// bind assigns the Go value sym to the func variable fptr points at. sym may
// be a func value or a pointer to a func variable, which is how the plugin
// package exposes exported variables.
func bind(name string, sym any, fptr any) error {
	dst := reflect.ValueOf(fptr)
	if dst.Kind() != reflect.Pointer || dst.IsNil() || dst.Elem().Kind() != reflect.Func {
		return fmt.Errorf("native: lookup %s: destination must be a non-nil pointer to a func, got %T", name, fptr)
	}

	src := reflect.ValueOf(sym)
	if src.Kind() == reflect.Pointer && !src.IsNil() && src.Elem().Kind() == reflect.Func {
		src = src.Elem()
	}
	if src.Kind() != reflect.Func || src.IsNil() {
		return &SymbolTypeError{Symbol: name, Got: fmt.Sprintf("%T", sym), Want: dst.Elem().Type().String()}
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return &SymbolTypeError{Symbol: name, Got: src.Type().String(), Want: dst.Elem().Type().String()}
	}

	dst.Elem().Set(src)
	return nil
}
