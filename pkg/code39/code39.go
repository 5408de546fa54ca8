// Package code39 encodes short strings as Code-39 bar/space width
// sequences.
//
// Code 39 represents each character as nine alternating bars and spaces of
// two widths, followed by a narrow inter-character gap, and brackets the
// message with a fixed start/stop pattern. A token here is a signed width
// in database units: positive for a drawn bar, negative for a space. The
// wide-to-narrow ratio is 2.25:1.
package code39

import "strings"

// Length bounds for an encodable string.
const (
	MinLength = 1
	MaxLength = 12
)

// Token widths in database units (1 nm grid): 200 um narrow, 450 um wide.
const (
	nb int32 = 200_000  // narrow bar
	wb int32 = 450_000  // wide bar
	ns int32 = -200_000 // narrow space
	ws int32 = -450_000 // wide space
)

// startStop is the '*' sentinel bracketing every barcode. Its presence at
// both ends makes the code self-synchronizing regardless of scan
// direction.
var startStop = [10]int32{nb, ws, nb, ns, wb, ns, wb, ns, nb, ns}

// patterns is the published Code-39 symbology table: ten tokens per
// character (nine elements plus the narrow inter-character gap).
var patterns = map[rune][10]int32{
	'A': {wb, ns, nb, ns, nb, ws, nb, ns, wb, ns},
	'B': {nb, ns, wb, ns, nb, ws, nb, ns, wb, ns},
	'C': {wb, ns, wb, ns, nb, ws, nb, ns, nb, ns},
	'D': {nb, ns, nb, ns, wb, ws, nb, ns, wb, ns},
	'E': {wb, ns, nb, ns, wb, ws, nb, ns, nb, ns},
	'F': {nb, ns, wb, ns, wb, ws, nb, ns, nb, ns},
	'G': {nb, ns, nb, ns, nb, ws, wb, ns, wb, ns},
	'H': {wb, ns, nb, ns, nb, ws, wb, ns, nb, ns},
	'I': {nb, ns, wb, ns, nb, ws, wb, ns, nb, ns},
	'J': {nb, ns, nb, ns, wb, ws, wb, ns, nb, ns},
	'K': {wb, ns, nb, ns, nb, ns, nb, ws, wb, ns},
	'L': {nb, ns, wb, ns, nb, ns, nb, ws, wb, ns},
	'M': {wb, ns, wb, ns, nb, ns, nb, ws, nb, ns},
	'N': {nb, ns, nb, ns, wb, ns, nb, ws, wb, ns},
	'O': {wb, ns, nb, ns, wb, ns, nb, ws, nb, ns},
	'P': {nb, ns, wb, ns, wb, ns, nb, ws, nb, ns},
	'Q': {nb, ns, nb, ns, nb, ns, wb, ws, wb, ns},
	'R': {wb, ns, nb, ns, nb, ns, wb, ws, nb, ns},
	'S': {nb, ns, wb, ns, nb, ns, wb, ws, nb, ns},
	'T': {nb, ns, nb, ns, wb, ns, wb, ws, nb, ns},
	'U': {wb, ws, nb, ns, nb, ns, nb, ns, wb, ns},
	'V': {nb, ws, wb, ns, nb, ns, nb, ns, wb, ns},
	'W': {wb, ws, wb, ns, nb, ns, nb, ns, nb, ns},
	'X': {nb, ws, nb, ns, wb, ns, nb, ns, wb, ns},
	'Y': {wb, ws, nb, ns, wb, ns, nb, ns, nb, ns},
	'Z': {nb, ws, wb, ns, wb, ns, nb, ns, nb, ns},
	'1': {wb, ns, nb, ws, nb, ns, nb, ns, wb, ns},
	'2': {nb, ns, wb, ws, nb, ns, nb, ns, wb, ns},
	'3': {wb, ns, wb, ws, nb, ns, nb, ns, nb, ns},
	'4': {nb, ns, nb, ws, wb, ns, nb, ns, wb, ns},
	'5': {wb, ns, nb, ws, wb, ns, nb, ns, nb, ns},
	'6': {nb, ns, wb, ws, wb, ns, nb, ns, nb, ns},
	'7': {nb, ns, nb, ws, nb, ns, wb, ns, wb, ns},
	'8': {wb, ns, nb, ws, nb, ns, wb, ns, nb, ns},
	'9': {nb, ns, wb, ws, nb, ns, wb, ns, nb, ns},
	'0': {nb, ns, nb, ws, wb, ns, wb, ns, nb, ns},
	'-': {nb, ws, nb, ns, nb, ns, wb, ns, wb, ns},
	'.': {wb, ws, nb, ns, nb, ns, wb, ns, nb, ns},
	'$': {nb, ws, nb, ws, nb, ws, nb, ns, nb, ns},
	'/': {nb, ws, nb, ws, nb, ns, nb, ws, nb, ns},
	'+': {nb, ws, nb, ns, nb, ws, nb, ws, nb, ns},
	'%': {nb, ns, nb, ws, nb, ws, nb, ws, nb, ns},
	' ': {nb, ws, wb, ns, nb, ns, wb, ns, nb, ns},
}

// Alphabet returns the encodable characters in display order, for use in
// validation error messages.
func Alphabet() string {
	return "A-Z, 0-9, space and - . $ / + %"
}

// Normalize upper-cases text the way Encode will before validating, so
// callers can echo the value that was actually encoded.
func Normalize(text string) string {
	return strings.ToUpper(text)
}

// Encode converts text into a flat token sequence: the start/stop sentinel,
// ten tokens per character in input order, and the sentinel again. Text is
// upper-cased before validation. It returns a *LengthError when text is
// outside the 1..12 character range, or a *CharacterError carrying the
// first (leftmost) rune not in the symbology table.
func Encode(text string) ([]int32, error) {
	text = Normalize(text)
	n := len([]rune(text))
	if n < MinLength || n > MaxLength {
		return nil, &LengthError{Text: text}
	}
	for _, r := range text {
		if _, ok := patterns[r]; !ok {
			return nil, &CharacterError{Char: r}
		}
	}

	tokens := make([]int32, 0, 10*(n+2))
	tokens = append(tokens, startStop[:]...)
	for _, r := range text {
		pat := patterns[r]
		tokens = append(tokens, pat[:]...)
	}
	tokens = append(tokens, startStop[:]...)
	return tokens, nil
}
