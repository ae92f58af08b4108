package services

import "strings"

// Status update subtypes. Zone 1/2 are "present but not answering" cases
// with their own flat fees.
const (
	UpdateDelivered    = "delivered"
	UpdateFailed       = "failed"
	UpdatePayment      = "payment"
	UpdatePickup       = "pickup"
	UpdateModify       = "modify"
	UpdateNumberChange = "number_change"
	UpdatePending      = "pending"
	UpdateClientAbsent = "client_absent"
	UpdateZone1        = "present_ne_decroche_zone1"
	UpdateZone2        = "present_ne_decroche_zone2"
)

type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindDelivery
	KindStatus
)

type Classification struct {
	Kind    MessageKind
	Subtype string // set only when Kind == KindStatus
}

type statusRule struct {
	subtype string
	match   func(norm string) bool
}

// statusRules is evaluated top to bottom, first match wins. The order is
// load-bearing: the vocabulary overlaps ("collecté" messages also mention
// delivery, "changer numéro" contains "changer"), so payment is checked
// before delivered, failure synonyms before pickup, modify before
// number-change, and the zone markers come last.
var statusRules = []statusRule{
	{UpdatePayment, func(n string) bool {
		return containsAny("collecte", "paiement", "encaisse")(n) || containsWord(n, "paye")
	}},
	{UpdateDelivered, func(n string) bool { return containsWord(n, "livre") || strings.Contains(n, "remis au client") }},
	{UpdateFailed, containsAny("echec", "echoue", "annule", "annulation", "refuse", "injoignable", "retour colis")},
	{UpdatePickup, containsAny("recuperation", "recupere", "recup", "ramassage", "pickup")},
	{UpdateModify, containsAny("modif", "changer article", "changer prix", "changer montant")},
	{UpdateNumberChange, containsAny("changement numero", "changement de numero", "nouveau numero", "changer numero", "changer le numero")},
	{UpdatePending, containsAny("en attente", "attente", "reporte")},
	{UpdateClientAbsent, containsAny("client absent", "absent")},
	{UpdateZone1, zoneRule("1")},
	{UpdateZone2, zoneRule("2")},
}

// Classify decides whether raw text is a new-delivery message, a status
// update (and which subtype), or neither. A message is never both.
func Classify(text string) Classification {
	norm := normalizeText(text)
	for _, r := range statusRules {
		if r.match(norm) {
			return Classification{Kind: KindStatus, Subtype: r.subtype}
		}
	}
	if looksLikeDelivery(text) {
		return Classification{Kind: KindDelivery}
	}
	return Classification{Kind: KindUnknown}
}

func IsDeliveryMessage(text string) bool {
	return Classify(text).Kind == KindDelivery
}

func IsStatusUpdate(text string) bool {
	return Classify(text).Kind == KindStatus
}

// looksLikeDelivery: no status keyword anywhere, but the text carries both
// a phone and an amount, which is the shape of a creation message.
func looksLikeDelivery(text string) bool {
	if _, ok := NormalizePhone(text); !ok {
		return false
	}
	_, ok := FindAmount(stripPhones(text))
	return ok
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

// normalizeText lowercases and folds accents so keyword rules match the
// accented and unaccented spellings alike.
func normalizeText(text string) string {
	return accentFolder.Replace(strings.ToLower(text))
}

func containsAny(keywords ...string) func(string) bool {
	return func(norm string) bool {
		for _, kw := range keywords {
			if strings.Contains(norm, kw) {
				return true
			}
		}
		return false
	}
}

// containsWord matches kw as a whole word, so "livré" matches but
// "livreur" does not.
func containsWord(norm, kw string) bool {
	idx := 0
	for {
		i := strings.Index(norm[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordByte(norm[start-1])
		afterOK := end == len(norm) || !isWordByte(norm[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// zoneRule: a zone marker alone is not enough (quartier names contain
// "zone"), it must come with a presence/not-answering marker.
func zoneRule(zone string) func(string) bool {
	return func(norm string) bool {
		if !strings.Contains(norm, "decroche") && !strings.Contains(norm, "present") {
			return false
		}
		return strings.Contains(norm, "zone "+zone) || strings.Contains(norm, "zone"+zone)
	}
}
