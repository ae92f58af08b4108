package services

import (
	"context"
	"strconv"

	"livraison-telegram/db"
	"livraison-telegram/models"
)

// trackedFields lists the delivery fields that are audited. One history
// row is written per field whose value actually changed.
var trackedFields = []struct {
	name string
	get  func(*models.Delivery) string
}{
	{"phone", func(d *models.Delivery) string { return d.Phone }},
	{"customer_name", func(d *models.Delivery) string { return d.CustomerName }},
	{"items", func(d *models.Delivery) string { return d.Items }},
	{"amount_due", func(d *models.Delivery) string { return strconv.FormatInt(d.AmountDue, 10) }},
	{"amount_paid", func(d *models.Delivery) string { return strconv.FormatInt(d.AmountPaid, 10) }},
	{"status", func(d *models.Delivery) string { return d.Status }},
	{"quartier", func(d *models.Delivery) string { return d.Quartier }},
	{"notes", func(d *models.Delivery) string { return d.Notes }},
	{"carrier", func(d *models.Delivery) string { return d.Carrier }},
	{"delivery_fee", func(d *models.Delivery) string { return strconv.FormatInt(d.DeliveryFee, 10) }},
}

// DiffDeliveries returns one entry per tracked field whose value differs
// between before and after. Pure; storage is handled by AppendHistory.
func DiffDeliveries(before, after *models.Delivery, actor string) []models.HistoryEntry {
	var entries []models.HistoryEntry
	for _, f := range trackedFields {
		oldV, newV := f.get(before), f.get(after)
		if oldV == newV {
			continue
		}
		entries = append(entries, models.HistoryEntry{
			DeliveryID: before.ID,
			Action:     f.name,
			OldValue:   oldV,
			NewValue:   newV,
			Actor:      actor,
		})
	}
	return entries
}

// AppendHistory inserts one audit row. History is append-only and never
// read back by the transition engine.
func AppendHistory(ctx context.Context, e models.HistoryEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO delivery_history (delivery_id, action, old_value, new_value, actor)
		VALUES ($1, $2, $3, $4, $5)`,
		e.DeliveryID, e.Action, e.OldValue, e.NewValue, e.Actor,
	)
	return err
}

// RecordDeliveryChanges diffs the row before and after a transition and
// appends the audit entries.
func RecordDeliveryChanges(ctx context.Context, before, after *models.Delivery, actor string) error {
	for _, e := range DiffDeliveries(before, after, actor) {
		if err := AppendHistory(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// ListHistory returns the audit trail for a delivery, oldest first.
func ListHistory(ctx context.Context, deliveryID int64) ([]models.HistoryEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, delivery_id, action, old_value, new_value, actor, created_at
		FROM delivery_history
		WHERE delivery_id = $1
		ORDER BY created_at, id`,
		deliveryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.DeliveryID, &e.Action, &e.OldValue, &e.NewValue, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
