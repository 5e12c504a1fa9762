package enigma

const (
	// Size is the number of symbols in the alphabet and of contacts on a wheel.
	Size = 26

	// Letters is the alphabet in position order: A is 0, Z is 25.
	Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// ReversedLetters is Letters back to front.
	ReversedLetters = "ZYXWVUTSRQPONMLKJIHGFEDCBA"
)

// IndexOf returns the position of symbol in the alphabet.
func IndexOf(symbol rune) (int, error) {
	if !IsSymbol(symbol) {
		return 0, NewError("IndexOf").Symbol(symbol).Cause(ErrInvalidArgument).Err()
	}
	return int(symbol - 'A'), nil
}

// SymbolAt returns the symbol at position.
func SymbolAt(position int) (rune, error) {
	if position < 0 || position >= Size {
		return 0, NewError("SymbolAt").Position(position).Cause(ErrInvalidArgument).Err()
	}
	return rune('A' + position), nil
}

// IsSymbol reports whether r belongs to the alphabet.
func IsSymbol(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// mod normalises p into [0, Size), negative values included.
func mod(p int) int {
	p %= Size
	if p < 0 {
		p += Size
	}
	return p
}
