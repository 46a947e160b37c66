package nodeconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary returns a one-line summary of the record
func (r *Record) Summary() string {
	return fmt.Sprintf("device %02X group %04X @ channel %02X (SF %d, preamble %d ms)",
		r.DeviceID, r.GroupID, r.RchanID, r.RSF, r.PreambleTime)
}

// FormatAddressing returns a formatted string with the addressing fields
func (r *Record) FormatAddressing() string {
	var b strings.Builder

	b.WriteString("=== Addressing ===\n")
	b.WriteString(fmt.Sprintf("Device ID: %02X\n", r.DeviceID))
	b.WriteString(fmt.Sprintf("Group ID:  %04X\n", r.GroupID))

	return b.String()
}

// FormatGateways returns a formatted string with the gateway selection
func (r *Record) FormatGateways() string {
	var b strings.Builder

	b.WriteString("=== Gateways ===\n")
	b.WriteString(fmt.Sprintf("Mask:     %08X\n", r.GwMask))
	b.WriteString(fmt.Sprintf("Selected: %s\n", FormatGwMask(r.GwMask)))

	return b.String()
}

// FormatRadio returns a formatted string with the radio parameters
func (r *Record) FormatRadio() string {
	var b strings.Builder

	b.WriteString("=== Radio ===\n")
	b.WriteString(fmt.Sprintf("Channel:          %02X\n", r.RchanID))
	b.WriteString(fmt.Sprintf("Spreading Factor: %d\n", r.RSF))
	b.WriteString(fmt.Sprintf("Preamble Time:    %d ms\n", r.PreambleTime))

	return b.String()
}

// FormatSecurity returns a formatted string with the encryption key
func (r *Record) FormatSecurity() string {
	var b strings.Builder

	b.WriteString("=== Security ===\n")
	b.WriteString(fmt.Sprintf("Encryption Key: %X\n", r.EncKey))

	return b.String()
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (r *Record) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Device:   %02X (group %04X)\n", r.DeviceID, r.GroupID))
	b.WriteString(fmt.Sprintf("Radio:    channel %02X, SF %d, preamble %d ms\n",
		r.RchanID, r.RSF, r.PreambleTime))
	b.WriteString(fmt.Sprintf("Gateways: %s\n", FormatGwMask(r.GwMask)))
	b.WriteString(fmt.Sprintf("Key:      %X\n", r.EncKey))

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with all record fields
func (r *Record) FormatDetailed() string {
	var b strings.Builder

	b.WriteString(r.FormatAddressing())
	b.WriteString("\n")
	b.WriteString(r.FormatGateways())
	b.WriteString("\n")
	b.WriteString(r.FormatRadio())
	b.WriteString("\n")
	b.WriteString(r.FormatSecurity())

	return b.String()
}

// DecodeGwMask converts a gateway bitmask to a slice of gateway numbers.
// Example: 0x00000009 (binary 1001) → [0, 3]
func DecodeGwMask(mask uint32) []int {
	gateways := []int{}
	for i := 0; i < 32; i++ {
		if mask&(1<<uint(i)) != 0 {
			gateways = append(gateways, i)
		}
	}
	return gateways
}

// EncodeGwMask converts a slice of gateway numbers to a bitmask.
// Example: [0, 3] → 0x00000009
func EncodeGwMask(gateways []int) uint32 {
	var mask uint32
	for _, gw := range gateways {
		if gw >= 0 && gw <= 31 {
			mask |= 1 << uint(gw)
		}
	}
	return mask
}

// FormatGwMask returns a human-readable string for a gateway bitmask.
// Example: 0x00000009 → "Gateways 0+3"
func FormatGwMask(mask uint32) string {
	gateways := DecodeGwMask(mask)
	if len(gateways) == 0 {
		return "No gateways"
	}

	parts := make([]string, len(gateways))
	for i, gw := range gateways {
		parts[i] = strconv.Itoa(gw)
	}

	label := "Gateway"
	if len(gateways) > 1 {
		label = "Gateways"
	}
	return label + " " + strings.Join(parts, "+")
}

// String returns a human-readable summary of the record.
func (r *Record) String() string {
	return fmt.Sprintf("Node %02X (group %04X)\n"+
		"  Radio: channel %02X, SF %d, preamble %d ms\n"+
		"  Gateways: %s",
		r.DeviceID, r.GroupID,
		r.RchanID, r.RSF, r.PreambleTime,
		FormatGwMask(r.GwMask))
}
