package pricing

import (
	"fmt"
	"regexp"
	"strings"
)

// an outward code is at most four characters, so longer tokens carry the inward code
const minFullPostcodeSize = 5

var (
	outwardCodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?$`)
	areaPattern        = regexp.MustCompile(`^[A-Z]{1,2}$`)
	inwardCodePattern  = regexp.MustCompile(`[0-9][A-Z]{2}$`)
	leadingLetters     = regexp.MustCompile(`^[A-Z]+`)
)

// OutwardCode returns the district part of a UK postcode: "bb10 1ab" and
// "BB101AB" both give "BB10". A bare postcode area such as "BB" is accepted.
func OutwardCode(postcode string) (string, error) {
	fields := strings.Fields(strings.ToUpper(postcode))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidPostcode)
	}

	outward := fields[0]
	if len(fields) == 1 && len(outward) >= minFullPostcodeSize && inwardCodePattern.MatchString(outward) {
		outward = outward[:len(outward)-3]
	}

	if !outwardCodePattern.MatchString(outward) && !areaPattern.MatchString(outward) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	}

	return outward, nil
}

// PostcodeArea returns the leading letters of an outward code ("BB10" -> "BB").
func PostcodeArea(outward string) string {
	return leadingLetters.FindString(outward)
}
