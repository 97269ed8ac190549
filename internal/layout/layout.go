// Package layout reports size, alignment, and pointer content of element
// types stored in manually managed memory.
package layout

import (
	"reflect"
	"sync"
	"unsafe"
)

// Info describes the memory layout of a type.
type Info struct {
	Size        int
	Align       int
	HasPointers bool
}

var cache sync.Map // reflect.Type -> Info

// Of returns the layout of T. Results are cached per type.
func Of[T any]() Info {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()
	if v, ok := cache.Load(typ); ok {
		return v.(Info)
	}
	info := Info{
		Size:        int(unsafe.Sizeof(zero)),
		Align:       int(unsafe.Alignof(zero)),
		HasPointers: hasPointers(typ),
	}
	cache.Store(typ, info)
	return info
}

// hasPointers reports whether values of typ contain any word the garbage
// collector would need to scan.
func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointer, UnsafePointer, String, Slice, Map, Chan, Func, Interface.
		return true
	}
}
