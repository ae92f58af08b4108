package services

import (
	"testing"

	"livraison-telegram/models"
)

func delivery(status string, due, paid, fee int64) *models.Delivery {
	return &models.Delivery{
		ID:          1,
		AgencyID:    7,
		Phone:       "612345678",
		AmountDue:   due,
		AmountPaid:  paid,
		DeliveryFee: fee,
		Status:      status,
		Quartier:    "Bonapriso",
	}
}

func i64(v int64) *int64 { return &v }

func TestTransitionToDeliveredWithTariff(t *testing.T) {
	d := delivery(StatusPending, 12000, 0, 0)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusDelivered}, i64(2000))
	if cs.Status != StatusDelivered || cs.DeliveryFee != 2000 || cs.AmountPaid != 10000 {
		t.Errorf("to delivered = %+v, want fee 2000 paid 10000", cs)
	}
	if len(cs.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", cs.Warnings)
	}
}

// Applying the same transition twice must not double-discount: the net
// amount is always recomputed from amount_due, never from amount_paid.
func TestTransitionToDeliveredIdempotent(t *testing.T) {
	d := delivery(StatusPending, 12000, 0, 0)
	cs1 := ComputeTransition(d, ChangeRequest{Status: StatusDelivered}, i64(2000))

	d2 := delivery(cs1.Status, 12000, cs1.AmountPaid, cs1.DeliveryFee)
	cs2 := ComputeTransition(d2, ChangeRequest{Status: StatusDelivered}, i64(2000))

	if cs2.AmountPaid != cs1.AmountPaid || cs2.DeliveryFee != cs1.DeliveryFee {
		t.Errorf("second application drifted: first %+v, second %+v", cs1, cs2)
	}
	if cs2.AmountPaid != 10000 {
		t.Errorf("amount_paid = %d, want 10000", cs2.AmountPaid)
	}
}

// delivered -> failed fully reverses the retained fee and the collection,
// regardless of their values while delivered.
func TestTransitionDeliveredToFailedReversal(t *testing.T) {
	for _, paid := range []int64{0, 5000, 10000} {
		d := delivery(StatusDelivered, 12000, paid, 2000)
		cs := ComputeTransition(d, ChangeRequest{Status: StatusFailed}, nil)
		if cs.DeliveryFee != 0 || cs.AmountPaid != 0 {
			t.Errorf("delivered(paid=%d) -> failed = fee %d paid %d, want 0/0", paid, cs.DeliveryFee, cs.AmountPaid)
		}
	}
}

// Conservation: with a tariff found and no manual override,
// amount_paid + delivery_fee == amount_due after -> delivered.
func TestTransitionConservation(t *testing.T) {
	for _, tc := range []struct{ due, tarif int64 }{
		{12000, 2000}, {15000, 1500}, {1000, 1000}, {500, 1000},
	} {
		d := delivery(StatusPending, tc.due, 0, 0)
		cs := ComputeTransition(d, ChangeRequest{Status: StatusDelivered}, i64(tc.tarif))
		got := cs.AmountPaid + cs.DeliveryFee
		// When the fee exceeds the due amount the net clamps to zero and
		// conservation gives way to the non-negativity clamp.
		want := tc.due
		if tc.tarif > tc.due {
			want = tc.tarif
		}
		if got != want {
			t.Errorf("due=%d tarif=%d: paid+fee = %d, want %d", tc.due, tc.tarif, got, want)
		}
	}
}

// client_absent and both zone statuses never carry a collection: a fee may
// be owed, but amount_paid is forced to zero even when supplied manually.
func TestTransitionForcedZeroCollection(t *testing.T) {
	cases := []struct {
		status  string
		tarif   *int64
		wantFee int64
	}{
		{StatusClientAbsent, i64(2000), 2000},
		{StatusZone1, nil, Zone1Fee},
		{StatusZone2, nil, Zone2Fee},
	}
	for _, tc := range cases {
		d := delivery(StatusPending, 12000, 4000, 0)
		cs := ComputeTransition(d, ChangeRequest{Status: tc.status, AmountPaid: i64(9999)}, tc.tarif)
		if cs.AmountPaid != 0 {
			t.Errorf("-> %s: amount_paid = %d, want forced 0", tc.status, cs.AmountPaid)
		}
		if cs.DeliveryFee != tc.wantFee {
			t.Errorf("-> %s: fee = %d, want %d", tc.status, cs.DeliveryFee, tc.wantFee)
		}
	}
}

func TestTransitionToPickupFlatFee(t *testing.T) {
	// pickup ignores quartier pricing: flat 1000 even with a tariff around.
	d := delivery(StatusPending, 12000, 0, 0)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusPickup}, nil)
	if cs.DeliveryFee != PickupFee || cs.AmountPaid != 11000 {
		t.Errorf("-> pickup = fee %d paid %d, want 1000/11000", cs.DeliveryFee, cs.AmountPaid)
	}
}

func TestTransitionMissingTariffKeepsPreviousFee(t *testing.T) {
	// No tariff row: the previous fee is preserved, a warning is raised,
	// and the status change itself is not blocked.
	d := delivery(StatusPending, 12000, 0, 1500)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusDelivered}, nil)
	if cs.Status != StatusDelivered {
		t.Error("missing tariff must not block the transition")
	}
	if cs.DeliveryFee != 1500 {
		t.Errorf("fee = %d, want previous 1500", cs.DeliveryFee)
	}
	if cs.AmountPaid != 10500 {
		t.Errorf("paid = %d, want 10500", cs.AmountPaid)
	}
	if len(cs.Warnings) == 0 {
		t.Error("expected a missing-tariff warning")
	}
}

func TestTransitionManualFeeOverride(t *testing.T) {
	// Manual fee replaces the tariff and drives the recomputation.
	d := delivery(StatusPending, 12000, 0, 0)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusDelivered, DeliveryFee: i64(3000)}, i64(2000))
	if cs.DeliveryFee != 3000 || cs.AmountPaid != 9000 {
		t.Errorf("manual fee = %+v, want fee 3000 paid 9000", cs)
	}

	// Rule 9: no status change, manual fee supplied.
	d = delivery(StatusPending, 12000, 0, 500)
	cs = ComputeTransition(d, ChangeRequest{DeliveryFee: i64(2500)}, nil)
	if cs.Status != StatusPending || cs.DeliveryFee != 2500 || cs.AmountPaid != 9500 {
		t.Errorf("manual fee without status change = %+v", cs)
	}

	// Explicit amount_paid wins over the recomputation.
	d = delivery(StatusPending, 12000, 0, 0)
	cs = ComputeTransition(d, ChangeRequest{Status: StatusDelivered, AmountPaid: i64(12000)}, i64(2000))
	if cs.AmountPaid != 12000 || cs.DeliveryFee != 2000 {
		t.Errorf("explicit paid = %+v, want paid 12000 fee 2000", cs)
	}
}

func TestTransitionLeavingDelivered(t *testing.T) {
	// delivered -> pending undoes the payment entirely.
	d := delivery(StatusDelivered, 12000, 10000, 2000)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusPending}, nil)
	if cs.DeliveryFee != 0 || cs.AmountPaid != 0 {
		t.Errorf("delivered -> pending = %+v, want 0/0", cs)
	}

	// delivered -> pickup stays a fee-bearing settlement, not a reset.
	d = delivery(StatusDelivered, 12000, 10000, 2000)
	cs = ComputeTransition(d, ChangeRequest{Status: StatusPickup}, nil)
	if cs.DeliveryFee != PickupFee || cs.AmountPaid != 11000 {
		t.Errorf("delivered -> pickup = %+v, want fee 1000 paid 11000", cs)
	}
}

func TestTransitionLeavingZone(t *testing.T) {
	d := delivery(StatusZone1, 12000, 0, Zone1Fee)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusPending}, nil)
	if cs.DeliveryFee != 0 {
		t.Errorf("zone1 -> pending fee = %d, want 0", cs.DeliveryFee)
	}
	if cs.AmountPaid != 0 {
		t.Errorf("zone1 -> pending paid = %d, want 0", cs.AmountPaid)
	}

	// zone -> delivered prices like any other -> delivered.
	d = delivery(StatusZone2, 12000, 0, Zone2Fee)
	cs = ComputeTransition(d, ChangeRequest{Status: StatusDelivered}, i64(2000))
	if cs.DeliveryFee != 2000 || cs.AmountPaid != 10000 {
		t.Errorf("zone2 -> delivered = %+v", cs)
	}
}

func TestTransitionOpaqueStatus(t *testing.T) {
	// Unknown status strings pass through with no money side effects.
	d := delivery(StatusPending, 12000, 3000, 500)
	cs := ComputeTransition(d, ChangeRequest{Status: "en_course"}, nil)
	if cs.Status != "en_course" || cs.DeliveryFee != 500 || cs.AmountPaid != 3000 {
		t.Errorf("opaque status = %+v, want money untouched", cs)
	}
}

func TestTransitionClampsNegativeNet(t *testing.T) {
	// Fee larger than amount_due: the net clamps at zero.
	d := delivery(StatusPending, 800, 0, 0)
	cs := ComputeTransition(d, ChangeRequest{Status: StatusPickup}, nil)
	if cs.AmountPaid != 0 {
		t.Errorf("paid = %d, want clamped 0", cs.AmountPaid)
	}
}

func TestDeriveTransitionKind(t *testing.T) {
	tests := []struct {
		old, new  string
		manualFee bool
		want      TransitionKind
	}{
		{StatusPending, StatusDelivered, false, TransitionToDelivered},
		{StatusZone1, StatusDelivered, false, TransitionToDelivered},
		{StatusPending, StatusClientAbsent, false, TransitionToClientAbsent},
		{StatusDelivered, StatusFailed, false, TransitionToFailed},
		{StatusPending, StatusPickup, false, TransitionToPickup},
		{StatusPending, StatusZone1, false, TransitionToZone1},
		{StatusPending, StatusZone2, false, TransitionToZone2},
		{StatusDelivered, StatusPending, false, TransitionFromDelivered},
		{StatusDelivered, "en_course", false, TransitionFromDelivered},
		{StatusZone1, StatusPending, false, TransitionFromZone},
		{StatusZone2, "en_course", false, TransitionFromZone},
		{StatusPending, "", true, TransitionManualFee},
		{StatusPending, StatusPending, true, TransitionManualFee},
		{StatusPending, "", false, TransitionNone},
		{StatusPending, "en_course", false, TransitionNone},
	}
	for _, tt := range tests {
		got := DeriveTransitionKind(tt.old, tt.new, tt.manualFee)
		if got != tt.want {
			t.Errorf("DeriveTransitionKind(%q, %q, %v) = %v, want %v", tt.old, tt.new, tt.manualFee, got, tt.want)
		}
	}
}
