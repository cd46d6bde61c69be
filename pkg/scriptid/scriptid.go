// Package scriptid implements the 31-bit tagged identifier scripts see:
// a single integer that can name either a note or an event without the
// two numbering spaces colliding.
package scriptid

// ID is the tagged identifier scripts pass around as a plain integer.
// Bit 31 is the tag (0 = note, 1 = event); the low 31 bits are the
// untagged note or event id.
type ID uint32

const tagBit = uint32(1) << 31

// FromNoteID tags a note id for use in script code.
func FromNoteID(id uint64) ID {
	return ID(uint32(id) &^ tagBit)
}

// FromEventID tags an event id for use in script code.
func FromEventID(id uint64) ID {
	return ID(uint32(id)&^tagBit | tagBit)
}

// IsEvent reports whether id names an event rather than a note.
func (id ID) IsEvent() bool { return uint32(id)&tagBit != 0 }

// IsNote reports whether id names a note rather than an event.
func (id ID) IsNote() bool { return !id.IsEvent() }

// Untagged returns the bare 31-bit id with the tag bit stripped.
func (id ID) Untagged() uint64 { return uint64(uint32(id) &^ tagBit) }

// Zero is the script-visible "no id" / failure value.
const Zero ID = 0
