package services

import (
	"regexp"
	"strings"
)

// Local mobile numbers are 9 digits starting with 6. Messages write them
// with spaces, dots or dashes, sometimes behind the 237 country code.
var phoneRunRe = regexp.MustCompile(`\+?\d(?:[\s.\-]?\d)+`)

const (
	countryCode    = "237"
	intlPrefix     = "00"
	localPrefix    = '6'
	localPhoneLen  = 9
	minPhoneDigits = 8
)

// NormalizePhone locates the first phone-shaped digit run in text and
// returns it as a canonical digits-only local number. The country code,
// if present, is stripped. ok is false when no phone can be found.
func NormalizePhone(text string) (string, bool) {
	phones := ExtractPhones(text)
	if len(phones) == 0 {
		return "", false
	}
	return phones[0], true
}

// ExtractPhones returns every phone-shaped token in text, in order of
// appearance. Used by number-change updates, which need exactly two.
func ExtractPhones(text string) []string {
	var out []string
	for _, run := range phoneRunRe.FindAllString(text, -1) {
		phones, _ := consumePhones(keepDigits(run))
		out = append(out, phones...)
	}
	return out
}

// consumePhones walks one digit run and carves out every canonical local
// number in it. Two phones separated only by a space arrive as a single
// run, so the walk continues after each match; digits that belong to no
// phone come back as rest.
func consumePhones(digits string) (phones []string, rest string) {
	var leftover strings.Builder
	for len(digits) >= minPhoneDigits {
		switch {
		case strings.HasPrefix(digits, intlPrefix+countryCode):
			digits = digits[len(intlPrefix):]
		case strings.HasPrefix(digits, countryCode) && len(digits) >= len(countryCode)+minPhoneDigits:
			digits = digits[len(countryCode):]
		case digits[0] == localPrefix:
			n := localPhoneLen
			if len(digits) < n {
				n = len(digits)
			}
			phones = append(phones, digits[:n])
			digits = digits[n:]
		default:
			leftover.WriteByte(digits[0])
			digits = digits[1:]
		}
	}
	leftover.WriteString(digits)
	return phones, leftover.String()
}

// stripPhones blanks every phone-shaped token so amount scanning cannot
// mistake a phone number for a price. Digits that merged into a phone run
// without being part of the phone survive the stripping.
func stripPhones(text string) string {
	return phoneRunRe.ReplaceAllStringFunc(text, func(run string) string {
		phones, rest := consumePhones(keepDigits(run))
		if len(phones) == 0 {
			return run
		}
		return " " + rest + " "
	})
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
