// Package colorinfo describes the memory layout of pixel color types.
//
// Every color type used with an image buffer declares its layout statically
// through a Layout method: a color family name, a channel count and a single
// primitive channel type shared by all channels. The layout drives every
// stride and byte-offset computation in the image packages.
//
// # Verification
//
// A declared layout is verified against the real in-memory size of the Go
// type the first time InfoOf is called for it. A struct whose fields do not
// all share the declared channel type (mixed fields, nested structs, padding)
// fails that check with ErrInvalidLayout. The verification result is cached,
// so repeated lookups are cheap and always return equal values.
package colorinfo

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// ErrInvalidLayout is returned when a color type declares a layout that does
// not match its in-memory representation, or declares no channels.
var ErrInvalidLayout = errors.New("colorinfo: invalid color layout")

// Depth is the set of primitive channel types a color may be built from.
type Depth interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~int32 | ~float32 | ~float64
}

// DepthKind identifies a primitive channel type at runtime.
type DepthKind uint8

const (
	// DepthInvalid is the zero value and never describes a real channel.
	DepthInvalid DepthKind = iota
	DepthUint8
	DepthInt8
	DepthUint16
	DepthInt16
	DepthInt32
	DepthFloat32
	DepthFloat64
)

var depthSizes = [...]int{
	DepthInvalid: 0,
	DepthUint8:   1,
	DepthInt8:    1,
	DepthUint16:  2,
	DepthInt16:   2,
	DepthInt32:   4,
	DepthFloat32: 4,
	DepthFloat64: 8,
}

var depthNames = [...]string{
	DepthInvalid: "invalid",
	DepthUint8:   "uint8",
	DepthInt8:    "int8",
	DepthUint16:  "uint16",
	DepthInt16:   "int16",
	DepthInt32:   "int32",
	DepthFloat32: "float32",
	DepthFloat64: "float64",
}

// Size returns the size of one channel in bytes.
func (k DepthKind) Size() int {
	if int(k) >= len(depthSizes) {
		return 0
	}
	return depthSizes[k]
}

// IsFloat reports whether the channel type is a floating point type.
func (k DepthKind) IsFloat() bool {
	return k == DepthFloat32 || k == DepthFloat64
}

// IsValid reports whether k names a known channel type.
func (k DepthKind) IsValid() bool {
	return k > DepthInvalid && int(k) < len(depthSizes)
}

func (k DepthKind) String() string {
	if int(k) >= len(depthNames) {
		return "invalid"
	}
	return depthNames[k]
}

// DepthOf returns the DepthKind of T.
func DepthOf[T Depth]() DepthKind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return DepthUint8
	case int8:
		return DepthInt8
	case uint16:
		return DepthUint16
	case int16:
		return DepthInt16
	case int32:
		return DepthInt32
	case float32:
		return DepthFloat32
	case float64:
		return DepthFloat64
	}
	// Named types (~uint8 and friends) fall back to the reflected kind.
	return kindOf(reflect.TypeFor[T]().Kind())
}

// ColorInfo describes one color type: its family name, how many channels it
// has and the primitive type of those channels.
type ColorInfo struct {
	// ColorType is the color family, e.g. "Bgr" or "Gray".
	ColorType string `json:"color_type"`

	// ChannelCount is the number of channels per pixel (always positive for
	// a valid layout).
	ChannelCount int `json:"channel_count"`

	// ChannelType is the primitive type shared by all channels.
	ChannelType DepthKind `json:"channel_type"`
}

// New builds a ColorInfo for a color family with channels of type T.
func New[T Depth](colorType string, channels int) (ColorInfo, error) {
	info := ColorInfo{ColorType: colorType, ChannelCount: channels, ChannelType: DepthOf[T]()}
	if err := info.Validate(); err != nil {
		return ColorInfo{}, err
	}
	return info, nil
}

// Declare is New for use in Layout methods, where the arguments are
// compile-time constants. An invalid declaration surfaces as an error from
// InfoOf rather than a panic here.
func Declare[T Depth](colorType string, channels int) ColorInfo {
	return ColorInfo{ColorType: colorType, ChannelCount: channels, ChannelType: DepthOf[T]()}
}

// Validate checks the layout is self-consistent.
func (c ColorInfo) Validate() error {
	if c.ColorType == "" {
		return errors.Wrap(ErrInvalidLayout, "empty color type")
	}
	if c.ChannelCount <= 0 {
		return errors.Wrapf(ErrInvalidLayout, "%s: channel count %d", c.ColorType, c.ChannelCount)
	}
	if !c.ChannelType.IsValid() {
		return errors.Wrapf(ErrInvalidLayout, "%s: channel type is not a primitive numeric type", c.ColorType)
	}
	return nil
}

// ChannelSize returns the size of one channel in bytes.
func (c ColorInfo) ChannelSize() int {
	return c.ChannelType.Size()
}

// Size returns the size of one pixel in bytes.
func (c ColorInfo) Size() int {
	return c.ChannelCount * c.ChannelSize()
}

func (c ColorInfo) String() string {
	return fmt.Sprintf("%s<%s>x%d", c.ColorType, c.ChannelType, c.ChannelCount)
}

// Color is the constraint satisfied by every pixel type usable in an image
// buffer. Layout must not depend on the receiver's value.
type Color interface {
	comparable
	Layout() ColorInfo
}

var verified sync.Map // reflect.Type -> verifyResult

type verifyResult struct {
	info ColorInfo
	err  error
}

// InfoOf returns the verified layout of C.
//
// On the first call for a given type the declared layout is validated and
// compared with unsafe.Sizeof(C); subsequent calls return the cached result.
func InfoOf[C Color]() (ColorInfo, error) {
	typ := reflect.TypeFor[C]()
	if cached, ok := verified.Load(typ); ok {
		res := cached.(verifyResult)
		return res.info, res.err
	}

	var zero C
	info := zero.Layout()
	err := info.Validate()
	if err == nil {
		err = checkFields(typ, info)
	}
	if err == nil {
		if actual := int(unsafe.Sizeof(zero)); actual != info.Size() {
			err = errors.Wrapf(ErrInvalidLayout,
				"%s declares %d bytes per pixel but %s occupies %d",
				info, info.Size(), typ, actual)
		}
	}

	res, _ := verified.LoadOrStore(typ, verifyResult{info: info, err: err})
	out := res.(verifyResult)
	return out.info, out.err
}

// checkFields verifies that a struct color type has exactly ChannelCount
// fields, all of the declared channel type. Non-struct types (a bare
// primitive used as a one-channel color) only need a matching kind.
func checkFields(typ reflect.Type, info ColorInfo) error {
	if typ.Kind() != reflect.Struct {
		if kindOf(typ.Kind()) != info.ChannelType || info.ChannelCount != 1 {
			return errors.Wrapf(ErrInvalidLayout, "%s does not match %s", typ, info)
		}
		return nil
	}
	if typ.NumField() != info.ChannelCount {
		return errors.Wrapf(ErrInvalidLayout, "%s has %d fields, %s declares %d channels",
			typ, typ.NumField(), info.ColorType, info.ChannelCount)
	}
	for i := range typ.NumField() {
		f := typ.Field(i)
		if kindOf(f.Type.Kind()) != info.ChannelType {
			return errors.Wrapf(ErrInvalidLayout, "%s.%s is %s, want %s",
				typ, f.Name, f.Type, info.ChannelType)
		}
	}
	return nil
}

func kindOf(k reflect.Kind) DepthKind {
	switch k {
	case reflect.Uint8:
		return DepthUint8
	case reflect.Int8:
		return DepthInt8
	case reflect.Uint16:
		return DepthUint16
	case reflect.Int16:
		return DepthInt16
	case reflect.Int32:
		return DepthInt32
	case reflect.Float32:
		return DepthFloat32
	case reflect.Float64:
		return DepthFloat64
	}
	return DepthInvalid
}

// MustInfoOf is InfoOf that panics on an invalid layout. It is intended for
// package-level initialisation of known-good color types.
func MustInfoOf[C Color]() ColorInfo {
	info, err := InfoOf[C]()
	if err != nil {
		panic(err)
	}
	return info
}
