package services

import (
	"strings"
	"testing"
)

func TestConfirmationText(t *testing.T) {
	created := delivery(StatusPending, 12000, 0, 0)
	txt := ConfirmationText(&ProcessResult{Action: ActionCreated, Delivery: created})
	for _, want := range []string{"612345678", "12000", "Bonapriso"} {
		if !strings.Contains(txt, want) {
			t.Errorf("created confirmation %q missing %q", txt, want)
		}
	}

	updated := delivery(StatusDelivered, 12000, 10000, 2000)
	txt = ConfirmationText(&ProcessResult{Action: ActionUpdated, Subtype: UpdateDelivered, Delivery: updated})
	for _, want := range []string{StatusDelivered, "10000", "2000"} {
		if !strings.Contains(txt, want) {
			t.Errorf("updated confirmation %q missing %q", txt, want)
		}
	}

	if txt = ConfirmationText(&ProcessResult{Action: ActionNotFound}); txt == "" {
		t.Error("not_found confirmation should not be empty")
	}
	if txt = ConfirmationText(&ProcessResult{Action: ActionIncomplete, Subtype: UpdatePayment}); !strings.Contains(txt, "Paiement") {
		t.Errorf("incomplete payment confirmation = %q", txt)
	}
	if txt = ConfirmationText(&ProcessResult{Action: ActionIgnored}); txt != "" {
		t.Errorf("ignored messages get no confirmation, got %q", txt)
	}
}
