package bencode

// DefaultMaxDepth bounds list/dict nesting when Options.MaxDepth is unset.
const DefaultMaxDepth = 512

// LengthUnit selects what a string length prefix counts.
type LengthUnit int

const (
	// LengthChars counts Unicode code points.
	LengthChars LengthUnit = iota
	// LengthBytes counts bytes, as BitTorrent peers do.
	LengthBytes
)

// DuplicateKeyPolicy controls what the decoder does with a repeated dict key.
type DuplicateKeyPolicy int

const (
	DuplicateKeysError DuplicateKeyPolicy = iota
	DuplicateKeysLastWins
)

// BoolPolicy controls how the encoder treats booleans.
type BoolPolicy int

const (
	BoolsError BoolPolicy = iota
	// BoolsAsInt writes true as i1e and false as i0e.
	BoolsAsInt
)

// Options configures a Decoder or Encoder. The zero value is the strict
// default: character lengths, duplicate keys rejected, booleans rejected.
type Options struct {
	LengthUnit    LengthUnit
	DuplicateKeys DuplicateKeyPolicy
	Booleans      BoolPolicy
	MaxDepth      int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
