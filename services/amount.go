package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	kiloAmountRe  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[kK]\b`)
	groupAmountRe = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+`)
	plainAmountRe = regexp.MustCompile(`\d+`)
)

// ParseAmount parses one human-written amount token: "15k", "15.000" and
// "15,000" all yield 15000. ok is false when nothing numeric can be read,
// so callers can tell "no amount" from "amount is 0".
func ParseAmount(token string) (int64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	if m := kiloAmountRe.FindStringSubmatch(token); m != nil {
		prefix := strings.ReplaceAll(m[1], ",", ".")
		f, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return 0, false
		}
		return int64(math.Round(f * 1000)), true
	}
	cleaned := strings.NewReplacer(".", "", ",", "", " ", "").Replace(token)
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindAmount scans free text for the first amount-shaped token.
// Phone-shaped digit runs must be blanked out by the caller first
// (see stripPhones), otherwise a bare 9-digit number would win.
func FindAmount(text string) (int64, bool) {
	if m := kiloAmountRe.FindStringSubmatch(text); m != nil {
		return ParseAmount(m[0])
	}
	if m := groupAmountRe.FindString(text); m != "" {
		return ParseAmount(m)
	}
	if m := plainAmountRe.FindString(text); m != "" {
		return ParseAmount(m)
	}
	return 0, false
}
