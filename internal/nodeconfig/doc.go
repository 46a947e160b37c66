// Package nodeconfig implements the per-node configuration record and its
// textual field codec.
//
// Every simulated node owns one Record holding its addressing, gateway
// selection, radio parameters, and encryption key. The codec translates
// between the record's fixed-width binary fields and their textual
// renderings: big-endian uppercase hex for most fields, plain decimal for
// the preamble time. The same renderings appear in the record file, over
// the console, and in all tool output, so a value set through any surface
// reads back identically through every other.
//
// # Field Contract
//
// Each field has a fixed binary width and therefore a fixed hex width:
//
//	deviceId      1 byte   2 hex chars
//	groupId       2 bytes  4 hex chars
//	gwMask        4 bytes  8 hex chars
//	rchanId       1 byte   2 hex chars
//	rsf           1 byte   2 hex chars
//	preambleTime  2 bytes  decimal, 0-65535
//	encKey        16 bytes 32 hex chars
//
// Hex input is accepted in either case and rendered uppercase. A hex value
// of the wrong length is rejected outright; values are never padded or
// truncated to fit.
//
// # Usage Example
//
//	rec := nodeconfig.NewRecord()
//	if err := rec.Set(nodeconfig.KeyGwMask, "0A0B0C0D"); err != nil {
//	    return err
//	}
//	mask, _ := rec.Get(nodeconfig.KeyGwMask) // "0A0B0C0D"
//
//	// Batched edits apply all-or-nothing
//	update := nodeconfig.NewUpdate().
//	    Set(nodeconfig.KeyDeviceID, "2A").
//	    Set(nodeconfig.KeyPreambleTime, "200")
//	if err := update.Apply(rec); err != nil {
//	    return err
//	}
//
//	if err := rec.Save("Nodes/3c0f..."); err != nil {
//	    return err
//	}
//
// # Record Files
//
// Records persist as plain text, one key:value pair per line, no header or
// checksum. Load skips lines it cannot apply (missing separator, unknown
// key, malformed value) and keeps the rest, so an edited file with one bad
// line still configures the node.
//
// # Process-Wide Record
//
// The node process installs its Store with Install exactly once at
// startup; after that every mutation goes through the Store's locked
// accessors. Tools and tests work on free-standing Records instead.
//
// # Error Handling
//
// Get and Set return *ConfigError with a type of ErrTypeUnknownKey or
// ErrTypeMalformedValue. Both are non-fatal: the record is unchanged and
// the caller decides whether to surface or skip.
package nodeconfig
