package tablegen

import (
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Discriminant is the set of underlying types of generated enumerations.
type Discriminant interface {
	~uint8 | ~uint16 | ~uint32
}

// EncodeEnum writes an enumeration value as its discriminant.
func EncodeEnum[E Discriminant](enc *msgpack.Encoder, v E) error {
	return enc.EncodeUint(uint64(v))
}

// DecodeEnum reads a discriminant written by EncodeEnum. Discriminants for
// which valid reports false fail with an InvalidEnumValue error.
func DecodeEnum[E Discriminant](dec *msgpack.Decoder, typ string, valid func(E) bool) (E, error) {
	n, err := dec.DecodeUint64()
	if err != nil {
		return 0, err
	}
	v := E(n)
	if uint64(v) != n || !valid(v) {
		return 0, &ParseError{Kind: InvalidEnumValue, Type: typ, Value: strconv.FormatUint(n, 10)}
	}
	return v, nil
}

// ScanEnum converts a database value holding a variant name, as stored in a
// relational enum column, with lookup.
func ScanEnum[E any](src any, typ string, lookup func(string) (E, bool)) (E, error) {
	var name string
	switch src := src.(type) {
	case string:
		name = src
	case []byte:
		name = string(src)
	default:
		var zero E
		return zero, fmt.Errorf("tablegen: cannot scan %T into %s", src, typ)
	}
	v, ok := lookup(name)
	if !ok {
		return v, &ParseError{Kind: InvalidEnumValue, Type: typ, Value: strconv.Quote(name)}
	}
	return v, nil
}
