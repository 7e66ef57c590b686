// Package phone normalizes subscriber numbers to E.164 so that numbers typed
// by users and numbers delivered by payment providers compare equal.
package phone

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "KE"

// ErrInvalidNumber is returned for input that is not a valid phone number.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalize parses raw in the given region and returns its E.164 form.
// Provider MSISDNs usually arrive without the leading "+" (e.g. 254712345678);
// those are retried with a "+" prefix.
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidNumber
	}
	if region == "" {
		region = DefaultRegion
	}

	candidates := []string{raw}
	if !strings.HasPrefix(raw, "+") && !strings.HasPrefix(raw, "0") {
		candidates = append(candidates, "+"+raw)
	}

	for _, c := range candidates {
		num, err := libphonenumber.Parse(c, region)
		if err != nil {
			continue
		}
		if !libphonenumber.IsValidNumber(num) {
			continue
		}
		return libphonenumber.Format(num, libphonenumber.E164), nil
	}
	return "", ErrInvalidNumber
}
