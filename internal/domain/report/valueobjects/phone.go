package valueobjects

import (
	"regexp"
	"strings"
)

// optional country code 7, 8 or +7, then an operator digit 4, 8 or 9 and nine more digits
var russianMobilePattern = regexp.MustCompile(`^(\+7|7|8)?[489]\d{9}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// IsRussianMobile reports whether s is a Russian mobile number. Spaces,
// dashes and parentheses are ignored.
func IsRussianMobile(s string) bool {
	return russianMobilePattern.MatchString(phoneSeparators.Replace(strings.TrimSpace(s)))
}
