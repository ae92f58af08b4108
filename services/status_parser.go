package services

import "strings"

// StatusUpdate is the structured payload of a status command.
// Missing sub-fields stay zero-valued: the caller decides whether an
// incomplete update (payment without phone, number change without a
// second phone) is dropped. Ambiguity is never an error here.
type StatusUpdate struct {
	Type     string
	Phone    string
	NewPhone string // number_change only
	Amount   *int64 // payment, or modify with a price marker
	Items    string // modify with a goods marker
}

// ParseStatusUpdate extracts the subtype-specific payload from a status
// command. Returns nil only when no status keyword matches at all, which
// the classifier normally rules out before this is called.
func ParseStatusUpdate(text string) *StatusUpdate {
	norm := normalizeText(text)
	var subtype string
	for _, r := range statusRules {
		if r.match(norm) {
			subtype = r.subtype
			break
		}
	}
	if subtype == "" {
		return nil
	}

	u := &StatusUpdate{Type: subtype}
	switch subtype {
	case UpdatePayment:
		u.Phone, _ = NormalizePhone(text)
		if amount, ok := FindAmount(stripPhones(text)); ok {
			u.Amount = &amount
		}
	case UpdateNumberChange:
		phones := ExtractPhones(text)
		if len(phones) > 0 {
			u.Phone = phones[0]
		}
		if len(phones) > 1 {
			u.NewPhone = phones[1]
		}
	case UpdateModify:
		u.Phone, _ = NormalizePhone(text)
		parseModifyPayload(text, norm, u)
	default:
		u.Phone, _ = NormalizePhone(text)
	}
	return u
}

// Price-marker words take precedence over goods markers; with neither,
// a present amount is treated as a price change.
var (
	priceMarkers = []string{"prix", "montant", "somme"}
	goodsMarkers = []string{"article", "produit", "colis", "contenu"}
)

func parseModifyPayload(text, norm string, u *StatusUpdate) {
	for _, marker := range priceMarkers {
		if strings.Contains(norm, marker) {
			if amount, ok := FindAmount(stripPhones(text)); ok {
				u.Amount = &amount
			}
			return
		}
	}
	for _, marker := range goodsMarkers {
		if i := strings.Index(strings.ToLower(text), marker); i >= 0 {
			u.Items = modifyItemsText(text[i+len(marker):])
			return
		}
	}
	if amount, ok := FindAmount(stripPhones(text)); ok {
		u.Amount = &amount
	}
}

// modifyItemsText is the raw text after the goods marker, minus the phone
// token and surrounding separators.
func modifyItemsText(tail string) string {
	tail = stripPhones(tail)
	tail = strings.ReplaceAll(tail, "\n", " ")
	return strings.Trim(strings.Join(strings.Fields(tail), " "), " :;,.-")
}
