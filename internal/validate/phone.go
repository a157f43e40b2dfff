package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var nonDigitRe = regexp.MustCompile(`[^0-9]`)

// Phone parses a cleaned candidate (digits with an optional leading +)
// against the default region, falling back to international parsing when
// the regional parse fails. It returns the E.164 form and true only for
// numbers the metadata considers valid.
func Phone(candidate, region string) (string, bool) {
	num, err := phonenumbers.Parse(candidate, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		intl := candidate
		if !strings.HasPrefix(intl, "+") {
			intl = "+" + intl
		}
		num, err = phonenumbers.Parse(intl, "")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return "", false
		}
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// PhoneDisplay renders an E.164 number in a locale-appropriate display
// form: Indian toll-free and mobile groupings get explicit treatment, and
// everything else falls back to the parser's national format.
func PhoneDisplay(e164, region string) string {
	digits := nonDigitRe.ReplaceAllString(e164, "")
	switch {
	case strings.HasPrefix(digits, "911800") && len(digits) == 13:
		return fmt.Sprintf("%s-%s-%s", digits[2:6], digits[6:9], digits[9:])
	case strings.HasPrefix(digits, "91") && len(digits) == 12:
		return fmt.Sprintf("%s-%s-%s", digits[2:6], digits[6:9], digits[9:])
	case strings.HasPrefix(digits, "1800") && len(digits) == 11:
		return fmt.Sprintf("%s-%s-%s", digits[:4], digits[4:7], digits[7:])
	case region == "IN" && len(digits) == 10:
		return fmt.Sprintf("%s-%s-%s", digits[:4], digits[4:7], digits[7:])
	}
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		if len(digits) == 10 {
			return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
		}
		return e164
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
