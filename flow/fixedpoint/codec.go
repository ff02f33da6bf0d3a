// Package fixedpoint converts between integers and the fixed-width
// hexadecimal tokens used in pattern files.
//
// Values are stored as two's-complement words of a given bit width. A token is
// always lowercase and zero-padded to ceil(width/4) digits, so a 16-bit word
// is four digits and a 12-bit word is three.
package fixedpoint

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxWidth is the widest word the codec handles; wider words do not fit the
// signed range of int64 once a sign is applied.
const MaxWidth = 63

func checkWidth(width uint) error {
	if width == 0 || width > MaxWidth {
		return fmt.Errorf("fixedpoint: width %d out of range [1, %d]", width, MaxWidth)
	}
	return nil
}

// Digits returns the number of hex digits a word of width bits occupies.
func Digits(width uint) int {
	return int((width + 3) / 4)
}

// DecodeUnsigned parses hex as an unsigned word of width bits.
// The value must fit in width bits.
func DecodeUnsigned(hex string, width uint) (uint64, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	token := strings.TrimSpace(hex)
	v, err := strconv.ParseUint(token, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("fixedpoint: invalid hex token %q: %w", hex, err)
	}
	if v>>width != 0 {
		return 0, fmt.Errorf("fixedpoint: token %q exceeds %d bits", hex, width)
	}
	return v, nil
}

// DecodeSigned parses hex as an unsigned word and reinterprets it as two's
// complement when bit width-1 is set.
func DecodeSigned(hex string, width uint) (int64, error) {
	v, err := DecodeUnsigned(hex, width)
	if err != nil {
		return 0, err
	}
	x := int64(v)
	if v&(1<<(width-1)) != 0 {
		x -= 1 << width
	}
	return x, nil
}

// Encode formats x as a width-bit two's-complement word. Negative inputs are
// offset by 2^width; the result is masked to width bits, so out-of-range
// inputs wrap.
func Encode(x int64, width uint) string {
	if err := checkWidth(width); err != nil {
		panic(err)
	}
	if x < 0 {
		x += 1 << width
	}
	v := uint64(x) & (1<<width - 1)
	return fmt.Sprintf("%0*x", Digits(width), v)
}

// Range returns the inclusive signed range representable in width bits.
func Range(width uint) (lo, hi int64) {
	return -(1 << (width - 1)), 1<<(width-1) - 1
}
