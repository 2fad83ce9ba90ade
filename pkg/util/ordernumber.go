package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Order numbers are sequential six digit strings. A combined custom+premade
// cart produces two sibling orders sharing one base number with "-a"
// (custom) and "-b" (premade) suffixes.

const firstOrderNumber = "100001"

// SuffixCustom and SuffixPremade mark the sibling rows of a combined cart.
const (
	SuffixCustom  = "-a"
	SuffixPremade = "-b"
)

// BaseOrderNumber strips a sibling suffix, returning the shared base form.
func BaseOrderNumber(number string) string {
	if idx := strings.IndexByte(number, '-'); idx >= 0 {
		return number[:idx]
	}
	return number
}

// NextOrderNumber produces the number following the given one. An empty or
// unparsable input restarts the sequence.
func NextOrderNumber(last string) string {
	n, err := strconv.Atoi(BaseOrderNumber(last))
	if err != nil || n <= 0 {
		return firstOrderNumber
	}
	return fmt.Sprintf("%06d", n+1)
}

// SiblingNumbers derives the custom and premade numbers for a combined cart.
func SiblingNumbers(base string) (custom, premade string) {
	return base + SuffixCustom, base + SuffixPremade
}
