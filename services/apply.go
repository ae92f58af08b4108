package services

import (
	"context"
	"fmt"
	"log"

	"livraison-telegram/models"
)

// Outcomes of processing one incoming message. Ambiguous text is never an
// error: it is ignored or reported as incomplete, and the caller decides
// what to tell the group.
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionIgnored    = "ignored"
	ActionIncomplete = "incomplete"
	ActionNotFound   = "not_found"
)

type ProcessResult struct {
	Action   string
	Subtype  string // status subtype, when the message was a status update
	Delivery *models.Delivery
}

// ProcessIncomingMessage runs the whole pipeline for one chat message:
// classify, parse, look up the delivery by phone, compute the transition,
// write the row and the audit trail. One read-modify-write round trip, no
// retries; persistence errors propagate unchanged.
func ProcessIncomingMessage(ctx context.Context, agency *models.Agency, sender, text string) (*ProcessResult, error) {
	c := Classify(text)
	switch c.Kind {
	case KindDelivery:
		return processCreation(ctx, agency, text)
	case KindStatus:
		return processStatusUpdate(ctx, agency, sender, text, c.Subtype)
	default:
		return &ProcessResult{Action: ActionIgnored}, nil
	}
}

func processCreation(ctx context.Context, agency *models.Agency, text string) (*ProcessResult, error) {
	p := ParseDeliveryMessage(text)
	if !p.Valid {
		return &ProcessResult{Action: ActionIgnored}, nil
	}
	d, err := CreateDelivery(ctx, models.CreateDeliveryInput{
		AgencyID:  agency.ID,
		ChatID:    agency.ChatID,
		Phone:     p.Phone,
		Items:     p.Items,
		AmountDue: p.AmountDue,
		Quartier:  p.Quartier,
	})
	if err != nil {
		return nil, err
	}
	return &ProcessResult{Action: ActionCreated, Delivery: d}, nil
}

func processStatusUpdate(ctx context.Context, agency *models.Agency, sender, text, subtype string) (*ProcessResult, error) {
	su := ParseStatusUpdate(text)
	if su == nil {
		return &ProcessResult{Action: ActionIgnored}, nil
	}
	if su.Phone == "" {
		return &ProcessResult{Action: ActionIncomplete, Subtype: su.Type}, nil
	}
	d, err := FindDeliveryForUpdate(ctx, agency.ID, su.Phone)
	if err != nil {
		return nil, err
	}
	if d == nil {
		log.Printf("status update %q for unknown phone %s (agency %d), dropped", su.Type, su.Phone, agency.ID)
		return &ProcessResult{Action: ActionNotFound, Subtype: su.Type}, nil
	}

	req, ok := changeRequestFor(d, su)
	if !ok {
		return &ProcessResult{Action: ActionIncomplete, Subtype: su.Type, Delivery: d}, nil
	}
	after, err := ApplyChangeRequest(ctx, d, req, sender)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{Action: ActionUpdated, Subtype: su.Type, Delivery: after}, nil
}

// changeRequestFor maps a parsed status update onto a change request.
// ok is false for incomplete updates (payment without an amount, number
// change without a second phone), which are reported and dropped.
func changeRequestFor(d *models.Delivery, su *StatusUpdate) (ChangeRequest, bool) {
	switch su.Type {
	case UpdatePayment:
		if su.Amount == nil {
			return ChangeRequest{}, false
		}
		// Collections accumulate; full collection auto-settles the
		// delivery with the collected amount supplied explicitly.
		paid := clampRange(d.AmountPaid+*su.Amount, d.AmountDue)
		if paid >= d.AmountDue {
			return ChangeRequest{Status: StatusDelivered, AmountPaid: &paid}, true
		}
		return ChangeRequest{AmountPaid: &paid}, true
	case UpdateModify:
		if su.Amount != nil {
			return ChangeRequest{AmountDue: su.Amount}, true
		}
		if su.Items != "" {
			items := su.Items
			return ChangeRequest{Items: &items}, true
		}
		return ChangeRequest{}, false
	case UpdateNumberChange:
		if su.NewPhone == "" {
			return ChangeRequest{}, false
		}
		phone := su.NewPhone
		return ChangeRequest{Phone: &phone}, true
	default:
		// The remaining subtypes share their name with the target status.
		return ChangeRequest{Status: su.Type}, true
	}
}

// ApplyChangeRequest runs the transition engine against the current row
// and persists the outcome plus one audit entry per changed field. The
// tariff is fetched only for transitions that price from it and only when
// no manual fee was supplied.
func ApplyChangeRequest(ctx context.Context, d *models.Delivery, req ChangeRequest, actor string) (*models.Delivery, error) {
	quartier := d.Quartier
	if req.Quartier != nil {
		quartier = *req.Quartier
	}
	target := req.Status
	if target == "" {
		target = d.Status
	}

	var tarif *int64
	if (target == StatusDelivered || target == StatusClientAbsent) && req.DeliveryFee == nil {
		var err error
		tarif, err = GetTariff(ctx, d.AgencyID, quartier)
		if err != nil {
			return nil, fmt.Errorf("tariff lookup: %w", err)
		}
	}

	cs := ComputeTransition(d, req, tarif)
	for _, w := range cs.Warnings {
		log.Printf("delivery %d: %s", d.ID, w)
	}

	after := *d
	after.Status = cs.Status
	after.DeliveryFee = cs.DeliveryFee
	after.AmountPaid = cs.AmountPaid
	if req.Phone != nil {
		after.Phone = *req.Phone
	}
	if req.CustomerName != nil {
		after.CustomerName = *req.CustomerName
	}
	if req.Items != nil {
		after.Items = *req.Items
	}
	if req.AmountDue != nil {
		after.AmountDue = *req.AmountDue
	}
	if req.Quartier != nil {
		after.Quartier = *req.Quartier
	}
	if req.Notes != nil {
		after.Notes = *req.Notes
	}
	if req.Carrier != nil {
		after.Carrier = *req.Carrier
	}

	upd := models.DeliveryUpdate{
		Status:       &after.Status,
		DeliveryFee:  &after.DeliveryFee,
		AmountPaid:   &after.AmountPaid,
		Phone:        req.Phone,
		CustomerName: req.CustomerName,
		Items:        req.Items,
		AmountDue:    req.AmountDue,
		Quartier:     req.Quartier,
		Notes:        req.Notes,
		Carrier:      req.Carrier,
	}
	if err := UpdateDelivery(ctx, d.ID, upd); err != nil {
		return nil, err
	}
	if err := RecordDeliveryChanges(ctx, d, &after, actor); err != nil {
		return nil, err
	}
	return &after, nil
}
