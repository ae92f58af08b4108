package services

import (
	"fmt"

	"livraison-telegram/models"
)

// Delivery statuses. Anything outside this set is stored opaquely and has
// no fee or amount side effects.
const (
	StatusPending      = "pending"
	StatusDelivered    = "delivered"
	StatusFailed       = "failed"
	StatusPickup       = "pickup"
	StatusClientAbsent = "client_absent"
	StatusZone1        = "present_ne_decroche_zone1"
	StatusZone2        = "present_ne_decroche_zone2"
)

// Flat fees for transitions that ignore quartier pricing.
const (
	PickupFee = 1000
	Zone1Fee  = 500
	Zone2Fee  = 1000
)

// ChangeRequest is a requested status or field change on one delivery.
// An empty Status keeps the current one. Nil money fields mean "compute",
// non-nil ones are manual overrides from the caller.
type ChangeRequest struct {
	Status       string
	DeliveryFee  *int64
	AmountPaid   *int64
	AmountDue    *int64
	Phone        *string
	CustomerName *string
	Items        *string
	Quartier     *string
	Notes        *string
	Carrier      *string
}

// Changeset is the engine's verdict: the money fields and status the
// delivery must end up with. Warnings carry advisory conditions such as
// missing tariffs; they never block the transition.
type Changeset struct {
	Status      string
	DeliveryFee int64
	AmountPaid  int64
	Warnings    []string
}

// TransitionKind tags one (old status, new status) pair with the money
// rule that governs it. Target-status rules win over source-status rules,
// so e.g. zone1 -> delivered prices like any other -> delivered.
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionToDelivered
	TransitionToClientAbsent
	TransitionToFailed
	TransitionToPickup
	TransitionToZone1
	TransitionToZone2
	TransitionFromDelivered
	TransitionFromZone
	TransitionManualFee
)

type transitionFunc func(d *models.Delivery, req ChangeRequest, tarif *int64) (fee, paid int64, warnings []string)

// transitionRules maps each kind to its pure money rule. Every rule
// recomputes amount_paid from amount_due, never from the current
// amount_paid, so chained or repeated transitions cannot double-discount.
var transitionRules = map[TransitionKind]transitionFunc{
	TransitionToDelivered: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		fee, warns := tariffFee(d, req, tarif)
		return fee, paidOrRecompute(d, req, fee), warns
	},
	TransitionToClientAbsent: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		fee, warns := tariffFee(d, req, tarif)
		return fee, 0, warns
	},
	TransitionToFailed: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		// A failed delivery collects nothing, ever. Any retained fee or
		// prior collection is fully reversed.
		return 0, 0, nil
	},
	TransitionToPickup: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		fee := manualOrFlat(req, PickupFee)
		return fee, paidOrRecompute(d, req, fee), nil
	},
	TransitionToZone1: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		return manualOrFlat(req, Zone1Fee), 0, nil
	},
	TransitionToZone2: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		return manualOrFlat(req, Zone2Fee), 0, nil
	},
	TransitionFromDelivered: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		// Leaving delivered for a non-fee status undoes the payment.
		return 0, 0, nil
	},
	TransitionFromZone: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		if req.AmountPaid != nil {
			return 0, clampRange(*req.AmountPaid, effectiveDue(d, req)), nil
		}
		return 0, d.AmountPaid, nil
	},
	TransitionManualFee: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		fee := *req.DeliveryFee
		return fee, paidOrRecompute(d, req, fee), nil
	},
	TransitionNone: func(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, int64, []string) {
		if req.AmountPaid != nil {
			return d.DeliveryFee, clampRange(*req.AmountPaid, effectiveDue(d, req)), nil
		}
		return d.DeliveryFee, d.AmountPaid, nil
	},
}

// DeriveTransitionKind resolves the money rule for one request. Cases are
// mutually exclusive: the target status decides first, then the source
// status, then the manual-fee case.
func DeriveTransitionKind(oldStatus, newStatus string, manualFee bool) TransitionKind {
	if newStatus == "" {
		newStatus = oldStatus
	}
	switch newStatus {
	case StatusDelivered:
		return TransitionToDelivered
	case StatusClientAbsent:
		return TransitionToClientAbsent
	case StatusFailed:
		return TransitionToFailed
	case StatusPickup:
		return TransitionToPickup
	case StatusZone1:
		return TransitionToZone1
	case StatusZone2:
		return TransitionToZone2
	}
	if oldStatus == StatusDelivered && newStatus != oldStatus {
		return TransitionFromDelivered
	}
	if (oldStatus == StatusZone1 || oldStatus == StatusZone2) && newStatus != oldStatus {
		return TransitionFromZone
	}
	if manualFee {
		return TransitionManualFee
	}
	return TransitionNone
}

// ComputeTransition applies the tariff state machine to one delivery and
// one change request. tarif is the (agency, quartier) flat fee when one
// exists, nil otherwise; the engine itself never reads storage. The result
// is deterministic and safe to re-apply: running the same request twice
// yields the same changeset.
func ComputeTransition(d *models.Delivery, req ChangeRequest, tarif *int64) Changeset {
	newStatus := req.Status
	if newStatus == "" {
		newStatus = d.Status
	}
	kind := DeriveTransitionKind(d.Status, newStatus, req.DeliveryFee != nil)
	fee, paid, warns := transitionRules[kind](d, req, tarif)
	return Changeset{
		Status:      newStatus,
		DeliveryFee: clampNonNeg(fee),
		AmountPaid:  clampNonNeg(paid),
		Warnings:    warns,
	}
}

// tariffFee picks the fee for tariff-priced transitions: manual override
// first, then the tariff row. With neither, the previous fee is kept and a
// warning raised; missing pricing is advisory and never blocks the change.
func tariffFee(d *models.Delivery, req ChangeRequest, tarif *int64) (int64, []string) {
	if req.DeliveryFee != nil && *req.DeliveryFee >= 0 {
		return *req.DeliveryFee, nil
	}
	if tarif != nil {
		return *tarif, nil
	}
	quartier := d.Quartier
	if req.Quartier != nil {
		quartier = *req.Quartier
	}
	return d.DeliveryFee, []string{fmt.Sprintf(
		"no tariff for quartier %q (agency %d), keeping previous fee %d",
		quartier, d.AgencyID, d.DeliveryFee,
	)}
}

func manualOrFlat(req ChangeRequest, flat int64) int64 {
	if req.DeliveryFee != nil && *req.DeliveryFee >= 0 {
		return *req.DeliveryFee
	}
	return flat
}

// paidOrRecompute honors an explicit amount, otherwise recomputes the net
// amount from amount_due and the fee.
func paidOrRecompute(d *models.Delivery, req ChangeRequest, fee int64) int64 {
	if req.AmountPaid != nil {
		return *req.AmountPaid
	}
	return clampNonNeg(effectiveDue(d, req) - fee)
}

func effectiveDue(d *models.Delivery, req ChangeRequest) int64 {
	if req.AmountDue != nil {
		return *req.AmountDue
	}
	return d.AmountDue
}

func clampNonNeg(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampRange(v, max int64) int64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
