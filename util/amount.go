package util

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/florin-chain/florind/errors"
)

const (
	// Coin is the number of smallest units in one whole coin.
	Coin = 1_000_000

	// AmountDecimals is the number of fractional digits in the canonical
	// text form of an amount.
	AmountDecimals = 6

	// parseDecimals is the precision amounts are parsed at. Historically
	// amounts were parsed with eight fractional digits and the two guard
	// digits truncated away when the chain moved to six decimals; inputs
	// such as "0.00000111" therefore parse to 1 smallest unit while
	// "0.000001009" is rejected outright. Kept for compatibility.
	parseDecimals = 8

	// guardScale converts a parseDecimals-scaled value down to the
	// AmountDecimals scale.
	guardScale = 100

	// upperBound is the largest mantissa the fixed-point parser will
	// accept: 18 decimal digits.
	upperBound = 1_000_000_000_000_000_000 - 1
)

// FormatAmount renders an amount of smallest units as a decimal string with
// exactly AmountDecimals fractional digits. No floating point is involved.
func FormatAmount(n int64) string {
	// The unsigned negation is well defined for MinInt64, where -n is not.
	mag := uint64(n)
	if n < 0 {
		mag = -mag
	}

	quotient := mag / Coin
	remainder := mag % Coin

	if n < 0 {
		return fmt.Sprintf("-%d.%06d", quotient, remainder)
	}

	return fmt.Sprintf("%d.%06d", quotient, remainder)
}

// ParseAmount interprets a decimal string, optionally in exponent notation,
// as an amount of smallest units. Negative results are rejected: amounts on
// the RPC surface are money values, not balances.
func ParseAmount(val string) (int64, error) {
	n, err := ParseFixedPoint(val, parseDecimals)
	if err != nil {
		return 0, err
	}

	n /= guardScale

	if n < 0 {
		return 0, errors.NewAmountInvalidError("amount out of range: %s", val)
	}

	return n, nil
}

// AmountFromValue accepts the raw JSON form of an amount, either a number or
// its string representation, and parses it with ParseAmount.
func AmountFromValue(raw []byte) (int64, error) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return 0, errors.NewAmountInvalidError("amount is not a number or string")
	}

	if v[0] == '"' {
		s, err := strconv.Unquote(string(v))
		if err != nil {
			return 0, errors.NewAmountInvalidError("amount is not a number or string")
		}

		return ParseAmount(s)
	}

	if v[0] == '{' || v[0] == '[' || bytes.Equal(v, []byte("true")) ||
		bytes.Equal(v, []byte("false")) || bytes.Equal(v, []byte("null")) {
		return 0, errors.NewAmountInvalidError("amount is not a number or string")
	}

	return ParseAmount(string(v))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// processMantissaDigit folds one decimal digit into the mantissa. Trailing
// zeros are counted rather than multiplied in so that "0.000001000000"
// parses even though twelve fractional digits were supplied.
func processMantissaDigit(ch byte, mantissa int64, tzeros int) (int64, int, error) {
	if ch == '0' {
		return mantissa, tzeros + 1, nil
	}

	for i := 0; i <= tzeros; i++ {
		if mantissa > upperBound/10 {
			return 0, 0, errors.NewAmountOverflowError("amount out of range")
		}

		mantissa *= 10
	}

	return mantissa + int64(ch-'0'), 0, nil
}

// ParseFixedPoint parses val as a fixed-point decimal number with the given
// number of fractional digits, returning the scaled integer value. The
// accepted syntax is a plain decimal number with an optional sign, optional
// fraction and optional exponent; no whitespace, no thousands separators.
func ParseFixedPoint(val string, decimals int) (int64, error) {
	var (
		mantissa     int64
		exponent     int64
		tzeros       int
		mantissaSign bool
		exponentSign bool
		pointOfs     int64
		err          error
	)

	ptr := 0
	end := len(val)

	if ptr < end && val[ptr] == '-' {
		mantissaSign = true
		ptr++
	}

	switch {
	case ptr >= end:
		// empty string or loose '-'
		return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
	case val[ptr] == '0':
		// pass single 0
		ptr++
	case val[ptr] >= '1' && val[ptr] <= '9':
		for ptr < end && isDigit(val[ptr]) {
			if mantissa, tzeros, err = processMantissaDigit(val[ptr], mantissa, tzeros); err != nil {
				return 0, err
			}

			ptr++
		}
	default:
		// missing expected digit
		return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
	}

	if ptr < end && val[ptr] == '.' {
		ptr++

		if ptr >= end || !isDigit(val[ptr]) {
			return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
		}

		for ptr < end && isDigit(val[ptr]) {
			if mantissa, tzeros, err = processMantissaDigit(val[ptr], mantissa, tzeros); err != nil {
				return 0, err
			}

			ptr++
			pointOfs++
		}
	}

	if ptr < end && (val[ptr] == 'e' || val[ptr] == 'E') {
		ptr++

		if ptr < end && val[ptr] == '+' {
			ptr++
		} else if ptr < end && val[ptr] == '-' {
			exponentSign = true
			ptr++
		}

		if ptr >= end || !isDigit(val[ptr]) {
			return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
		}

		for ptr < end && isDigit(val[ptr]) {
			if exponent > upperBound/10 {
				return 0, errors.NewAmountOverflowError("amount out of range: %s", val)
			}

			exponent = exponent*10 + int64(val[ptr]-'0')
			ptr++
		}
	}

	if ptr != end {
		// trailing garbage
		return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
	}

	if exponentSign {
		exponent = -exponent
	}

	exponent = exponent - pointOfs + int64(tzeros)

	if mantissaSign {
		mantissa = -mantissa
	}

	exponent += int64(decimals)

	if exponent < 0 {
		// cannot represent values smaller than 10^-decimals
		return 0, errors.NewAmountInvalidError("invalid amount: %s", val)
	}

	if exponent >= 18 {
		// cannot represent values larger than or equal to 10^(18-decimals)
		return 0, errors.NewAmountOverflowError("amount out of range: %s", val)
	}

	for i := int64(0); i < exponent; i++ {
		if mantissa > upperBound/10 || mantissa < -(upperBound/10) {
			return 0, errors.NewAmountOverflowError("amount out of range: %s", val)
		}

		mantissa *= 10
	}

	if mantissa < -upperBound || mantissa > upperBound {
		return 0, errors.NewAmountOverflowError("amount out of range: %s", val)
	}

	return mantissa, nil
}
