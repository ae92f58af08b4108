package services

import (
	"regexp"
	"strings"
)

// ParsedDelivery is the extraction result for a creation message.
// HasAmount distinguishes "no amount found" from "amount is 0".
type ParsedDelivery struct {
	Valid     bool
	Phone     string
	Items     string
	AmountDue int64
	HasAmount bool
	Quartier  string
}

// ParseDeliveryMessage extracts phone/items/amount/quartier from a creation
// message. Strict mode expects exactly four non-empty lines in the order
// phone, items, amount, quartier. When that fails, a lenient scan assigns
// the first phone-shaped line, the first amount-shaped line, the last
// remaining line as quartier and everything else as items. The result is
// invalid only when neither a phone nor an amount exists anywhere: partial
// messages still produce a usable delivery.
func ParseDeliveryMessage(text string) ParsedDelivery {
	lines := nonEmptyLines(text)

	if p, ok := parseStrict(lines); ok {
		return p
	}
	return parseLenient(lines)
}

func parseStrict(lines []string) (ParsedDelivery, bool) {
	if len(lines) != 4 {
		return ParsedDelivery{}, false
	}
	phone, okPhone := NormalizePhone(lines[0])
	amount, okAmount := lineAmount(lines[2])
	if !okPhone || !okAmount {
		return ParsedDelivery{}, false
	}
	return ParsedDelivery{
		Valid:     true,
		Phone:     phone,
		Items:     lines[1],
		AmountDue: amount,
		HasAmount: true,
		Quartier:  lines[3],
	}, true
}

func parseLenient(lines []string) ParsedDelivery {
	var p ParsedDelivery
	var rest []string
	for _, line := range lines {
		if p.Phone == "" {
			if phone, ok := NormalizePhone(line); ok {
				p.Phone = phone
				continue
			}
		}
		if !p.HasAmount {
			if amount, ok := lineAmount(line); ok {
				p.AmountDue = amount
				p.HasAmount = true
				continue
			}
		}
		rest = append(rest, line)
	}
	if len(rest) > 0 {
		p.Quartier = rest[len(rest)-1]
		p.Items = strings.Join(rest[:len(rest)-1], " ")
	}
	p.Valid = p.Phone != "" || p.HasAmount
	return p
}

// amountLineRe: the whole line is one amount, optionally suffixed with a
// currency word. Lines that merely contain digits ("2 robes + 1 sac") are
// not amount lines.
var amountLineRe = regexp.MustCompile(`(?i)^\s*(\d+(?:[.,]\d+)?\s*k|\d{1,3}(?:[.,]\d{3})+|\d+)\s*(?:f|fr|frs|cfa|fcfa|francs)?\s*$`)

// lineAmount parses a line as an amount, refusing lines that are really
// phone numbers.
func lineAmount(line string) (int64, bool) {
	if _, ok := NormalizePhone(line); ok {
		return 0, false
	}
	m := amountLineRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1])
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
