// Package equal decides whether two projected or reduced values are the same
// for change detection.
package equal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var options = cmp.Options{
	cmpopts.EquateEmpty(),
	// Host slice types may carry unexported bookkeeping fields.
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Values reports whether a and b hold equal values. Nil and empty slices or
// maps compare equal.
func Values(a, b any) bool {
	return cmp.Equal(a, b, options)
}

// Of is the typed form of Values.
func Of[T any](a, b T) bool {
	return cmp.Equal(a, b, options)
}
