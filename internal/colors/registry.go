package colors

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/imgbuf/internal/colorinfo"
)

// ErrUnsupportedConversion is returned by Lookup when no conversion between
// two color types has been registered.
var ErrUnsupportedConversion = errors.New("colors: unsupported conversion")

type pairKey struct {
	src, dst reflect.Type
}

var registry sync.Map // pairKey -> func(S, *D)

// Register makes fn the conversion used by Lookup[S, D]. A later
// registration for the same pair replaces the earlier one.
func Register[S, D colorinfo.Color](fn func(S, *D)) {
	registry.Store(pairKey{reflect.TypeFor[S](), reflect.TypeFor[D]()}, fn)
}

// Lookup returns the registered conversion from S to D. Converting a type to
// itself is always supported.
func Lookup[S, D colorinfo.Color]() (func(S, *D), error) {
	src, dst := reflect.TypeFor[S](), reflect.TypeFor[D]()
	if src == dst {
		return func(s S, d *D) { *d = *(*D)(unsafe.Pointer(&s)) }, nil
	}
	fn, ok := registry.Load(pairKey{src, dst})
	if !ok {
		var s S
		var d D
		return nil, errors.Wrapf(ErrUnsupportedConversion, "%s -> %s", s.Layout(), d.Layout())
	}
	return fn.(func(S, *D)), nil
}

func init() {
	registerDepth[uint8]()
	registerDepth[int8]()
	registerDepth[uint16]()
	registerDepth[int16]()
	registerDepth[int32]()
	registerDepth[float32]()
	registerDepth[float64]()

	Register(BgrToHsv8)
	Register(HsvToBgr8)
	Register(BgrToHsvF[float32])
	Register(HsvToBgrF[float32])
	Register(BgrToHsvF[float64])
	Register(HsvToBgrF[float64])
}

func registerDepth[T colorinfo.Depth]() {
	Register(GrayToBgr[T])
	Register(GrayToBgra[T])
	Register(GrayToRgb[T])
	Register(BgrToGray[T])
	Register(BgraToGray[T])
	Register(RgbToGray[T])
	Register(BgrToBgra[T])
	Register(BgraToBgr[T])
	Register(BgrToRgb[T])
	Register(RgbToBgr[T])
	Register(RgbToBgra[T])
	Register(BgraToRgb[T])
}
