package enigma

import (
	"strings"
)

// Formatting is a cosmetic layout applied to ciphertext.
type Formatting int

const (
	// FormatOriginal leaves the output untouched.
	FormatOriginal Formatting = iota
	// FormatFourLetterBlocks groups output in blocks of four (naval convention).
	FormatFourLetterBlocks
	// FormatFiveLetterBlocks groups output in blocks of five (army and air force convention).
	FormatFiveLetterBlocks
)

// String returns the name accepted by ParseFormatting.
func (f Formatting) String() string {
	switch f {
	case FormatOriginal:
		return "original"
	case FormatFourLetterBlocks:
		return "four"
	case FormatFiveLetterBlocks:
		return "five"
	default:
		return "unknown"
	}
}

// BlockLength returns the number of letters per block, or 0 for no blocks.
func (f Formatting) BlockLength() int {
	switch f {
	case FormatFourLetterBlocks:
		return 4
	case FormatFiveLetterBlocks:
		return 5
	default:
		return 0
	}
}

// ParseFormatting converts a name to a Formatting.
func ParseFormatting(s string) (Formatting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "original", "none":
		return FormatOriginal, nil
	case "four", "4":
		return FormatFourLetterBlocks, nil
	case "five", "5":
		return FormatFiveLetterBlocks, nil
	default:
		return 0, NewError("ParseFormatting").Entity("formatting").Value(s).Cause(ErrInvalidArgument).Err()
	}
}

// Format lays out s according to f. Letters and their order are never
// changed; blocks are separated by a single space.
func Format(s string, f Formatting) (string, error) {
	if f < FormatOriginal || f > FormatFiveLetterBlocks {
		return "", NewError("Format").Entity("formatting").Value(f.String()).Cause(ErrInvalidArgument).Err()
	}
	n := f.BlockLength()
	if n == 0 || len(s) <= n {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s) + len(s)/n)
	for i := 0; i < len(s); i += n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s[i:min(i+n, len(s))])
	}
	return sb.String(), nil
}
