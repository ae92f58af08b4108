package services

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"15k", 15000, true},
		{"15K", 15000, true},
		{"15 k", 15000, true},
		{"1,5k", 1500, true},
		{"2.5k", 2500, true},
		{"15.000", 15000, true},
		{"15,000", 15000, true},
		{"1.250.000", 1250000, true},
		{"12000", 12000, true},
		{"0", 0, true},
		{"", 0, false},
		{"bonjour", 0, false},
		{"k", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseAmount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFindAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"prix 15k pour demain", 15000, true},
		{"montant: 15.000", 15000, true},
		{"total 12000 FCFA", 12000, true},
		{"rien à signaler", 0, false},
	}
	for _, tt := range tests {
		got, ok := FindAmount(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("FindAmount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// A payment message carries both a phone and an amount; stripping phones
// first is what keeps the 9-digit number from being read as a price.
func TestFindAmountAfterStripPhones(t *testing.T) {
	text := "Collecté 5k 655555555"
	got, ok := FindAmount(stripPhones(text))
	if !ok || got != 5000 {
		t.Errorf("FindAmount(stripPhones(%q)) = (%d, %v), want (5000, true)", text, got, ok)
	}
}
