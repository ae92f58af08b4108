package services

import (
	"testing"

	"livraison-telegram/models"
)

func TestDiffDeliveriesChangedFields(t *testing.T) {
	before := delivery(StatusPending, 12000, 0, 0)
	after := *before
	after.Status = StatusDelivered
	after.AmountPaid = 10000
	after.DeliveryFee = 2000

	entries := DiffDeliveries(before, &after, "tester")
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
	byAction := map[string]models.HistoryEntry{}
	for _, e := range entries {
		byAction[e.Action] = e
		if e.DeliveryID != before.ID {
			t.Errorf("entry %s carries delivery %d, want %d", e.Action, e.DeliveryID, before.ID)
		}
		if e.Actor != "tester" {
			t.Errorf("entry %s actor = %q", e.Action, e.Actor)
		}
	}
	if e := byAction["status"]; e.OldValue != StatusPending || e.NewValue != StatusDelivered {
		t.Errorf("status entry = %+v", e)
	}
	if e := byAction["amount_paid"]; e.OldValue != "0" || e.NewValue != "10000" {
		t.Errorf("amount_paid entry = %+v", e)
	}
	if e := byAction["delivery_fee"]; e.OldValue != "0" || e.NewValue != "2000" {
		t.Errorf("delivery_fee entry = %+v", e)
	}
}

func TestDiffDeliveriesNoChange(t *testing.T) {
	before := delivery(StatusPending, 12000, 0, 0)
	after := *before
	if entries := DiffDeliveries(before, &after, "tester"); entries != nil {
		t.Errorf("identical rows should produce no entries, got %+v", entries)
	}
}

func TestDiffDeliveriesPhoneChange(t *testing.T) {
	before := delivery(StatusPending, 12000, 0, 0)
	after := *before
	after.Phone = "698765432"
	entries := DiffDeliveries(before, &after, "tester")
	if len(entries) != 1 || entries[0].Action != "phone" ||
		entries[0].OldValue != "612345678" || entries[0].NewValue != "698765432" {
		t.Errorf("phone change entries = %+v", entries)
	}
}
