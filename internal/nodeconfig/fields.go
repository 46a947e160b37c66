package nodeconfig

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Canonical field keys. These are the exact strings accepted by Get/Set,
// the console, and the record file format.
const (
	KeyDeviceID     = "deviceId"
	KeyGroupID      = "groupId"
	KeyGwMask       = "gwMask"
	KeyRchanID      = "rchanId"
	KeyRSF          = "rsf"
	KeyPreambleTime = "preambleTime"
	KeyEncKey       = "encKey"
)

// MaxValueLen is the longest textual rendering any field can produce
// (the 32 hex characters of encKey). Line buffers sized to hold a full
// key:value pair can rely on it.
const MaxValueLen = 32

// fieldKind selects the textual encoding of a field
type fieldKind int

const (
	// kindHex renders as fixed-width big-endian hex (2 chars per byte)
	kindHex fieldKind = iota
	// kindDecimal renders as a variable-length decimal number
	kindDecimal
)

// fieldSpec describes one record field: canonical key, binary width,
// textual encoding, and accessors that move big-endian bytes in and out of
// the record. Key dispatch goes through the table below, never through
// per-call string comparison chains.
type fieldSpec struct {
	key   string
	width int // binary width in bytes
	kind  fieldKind
	load  func(*Record) []byte
	store func(*Record, []byte)
}

// fieldTable lists every field in canonical record order.
var fieldTable = []fieldSpec{
	{
		key: KeyDeviceID, width: 1, kind: kindHex,
		load:  func(r *Record) []byte { return []byte{r.DeviceID} },
		store: func(r *Record, b []byte) { r.DeviceID = b[0] },
	},
	{
		key: KeyGroupID, width: 2, kind: kindHex,
		load:  func(r *Record) []byte { return beBytes(uint64(r.GroupID), 2) },
		store: func(r *Record, b []byte) { r.GroupID = binary.BigEndian.Uint16(b) },
	},
	{
		key: KeyGwMask, width: 4, kind: kindHex,
		load:  func(r *Record) []byte { return beBytes(uint64(r.GwMask), 4) },
		store: func(r *Record, b []byte) { r.GwMask = binary.BigEndian.Uint32(b) },
	},
	{
		key: KeyRchanID, width: 1, kind: kindHex,
		load:  func(r *Record) []byte { return []byte{r.RchanID} },
		store: func(r *Record, b []byte) { r.RchanID = b[0] },
	},
	{
		key: KeyRSF, width: 1, kind: kindHex,
		load:  func(r *Record) []byte { return []byte{r.RSF} },
		store: func(r *Record, b []byte) { r.RSF = b[0] },
	},
	{
		key: KeyPreambleTime, width: 2, kind: kindDecimal,
		load:  func(r *Record) []byte { return beBytes(uint64(r.PreambleTime), 2) },
		store: func(r *Record, b []byte) { r.PreambleTime = binary.BigEndian.Uint16(b) },
	},
	{
		key: KeyEncKey, width: 16, kind: kindHex,
		load: func(r *Record) []byte {
			b := make([]byte, 16)
			copy(b, r.EncKey[:])
			return b
		},
		store: func(r *Record, b []byte) { copy(r.EncKey[:], b) },
	},
}

// fieldsByKey indexes the table for O(1) key dispatch.
var fieldsByKey = func() map[string]*fieldSpec {
	m := make(map[string]*fieldSpec, len(fieldTable))
	for i := range fieldTable {
		m[fieldTable[i].key] = &fieldTable[i]
	}
	return m
}()

// Keys returns the canonical field keys in record order.
func Keys() []string {
	keys := make([]string, len(fieldTable))
	for i := range fieldTable {
		keys[i] = fieldTable[i].key
	}
	return keys
}

// FieldWidth returns the binary width in bytes of the named field.
func FieldWidth(key string) (int, bool) {
	spec, ok := fieldsByKey[key]
	if !ok {
		return 0, false
	}
	return spec.width, true
}

// FieldHint returns a short description of the expected input for a field,
// suitable for prompts and edit placeholders.
func FieldHint(key string) string {
	spec, ok := fieldsByKey[key]
	if !ok {
		return ""
	}
	if spec.kind == kindDecimal {
		return fmt.Sprintf("decimal 0-%d", uint64(1)<<(8*uint(spec.width))-1)
	}
	return fmt.Sprintf("%d hex chars", spec.width*2)
}

// Get renders the named field as text: fixed-width uppercase big-endian hex
// for hex fields, plain decimal for preambleTime.
func (r *Record) Get(key string) (string, error) {
	spec, ok := fieldsByKey[key]
	if !ok {
		return "", NewUnknownKeyError(key)
	}
	return spec.render(r), nil
}

// Set parses value and stores it into the named field. The record is left
// unchanged when the key is unknown or the value is rejected.
func (r *Record) Set(key, value string) error {
	spec, ok := fieldsByKey[key]
	if !ok {
		return NewUnknownKeyError(key)
	}
	raw, err := spec.decode(value)
	if err != nil {
		return err
	}
	spec.store(r, raw)
	return nil
}

// Canonical returns the canonical rendering of value for key: the exact
// text Get would return after a successful Set of that value. Lowercase hex
// comes back uppercased, decimal values lose leading zeros.
func Canonical(key, value string) (string, error) {
	var scratch Record
	if err := scratch.Set(key, value); err != nil {
		return "", err
	}
	return scratch.Get(key)
}

// Fields returns every field rendered canonically, keyed by field name.
func (r *Record) Fields() map[string]string {
	m := make(map[string]string, len(fieldTable))
	for i := range fieldTable {
		m[fieldTable[i].key] = fieldTable[i].render(r)
	}
	return m
}

// render produces the canonical textual form of the field's current value.
func (fs *fieldSpec) render(r *Record) string {
	raw := fs.load(r)
	if fs.kind == kindDecimal {
		return strconv.FormatUint(beValue(raw), 10)
	}
	// %X gives two uppercase digits per byte, preserving leading zeros
	return fmt.Sprintf("%X", raw)
}

// decode parses a textual value into big-endian bytes of the field's width.
//
// Hex values must supply exactly two characters per byte. Short and long
// values are rejected rather than zero-padded or truncated: a truncated
// gwMask would silently address the wrong gateways.
func (fs *fieldSpec) decode(value string) ([]byte, error) {
	if fs.kind == kindDecimal {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, NewMalformedValueError(fs.key,
				fmt.Sprintf("expected a decimal number, got %q", value), err)
		}
		max := uint64(1)<<(8*uint(fs.width)) - 1
		if v > max {
			return nil, NewMalformedValueError(fs.key,
				fmt.Sprintf("value %d exceeds maximum %d", v, max), nil)
		}
		return beBytes(v, fs.width), nil
	}

	if len(value) != fs.width*2 {
		return nil, NewMalformedValueError(fs.key,
			fmt.Sprintf("expected %d hex chars, got %d", fs.width*2, len(value)), nil)
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, NewMalformedValueError(fs.key,
			fmt.Sprintf("invalid hex digits in %q", value), err)
	}
	return raw, nil
}

// beBytes renders v as width big-endian bytes.
func beBytes(v uint64, width int) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// beValue reads big-endian bytes as an unsigned value.
func beValue(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
