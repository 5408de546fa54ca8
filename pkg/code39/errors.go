package code39

import "fmt"

// LengthError reports a barcode string outside the 1..12 character range.
// It carries the offending string so prompts can echo it back.
type LengthError struct {
	Text string
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("barcode %q must be between %d and %d characters long", e.Text, MinLength, MaxLength)
}

// CharacterError reports the first character of a barcode string that is
// not part of the Code-39 alphabet.
type CharacterError struct {
	Char rune
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("invalid character in barcode string: %q", e.Char)
}
