package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"livraison-telegram/db"
	"livraison-telegram/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deliveryColumns = `
	id, reference, agency_id, chat_id, phone, customer_name, items,
	amount_due, amount_paid, delivery_fee, status, quartier, notes, carrier,
	created_at, updated_at`

func scanDelivery(row pgx.Row) (*models.Delivery, error) {
	var d models.Delivery
	err := row.Scan(
		&d.ID, &d.Reference, &d.AgencyID, &d.ChatID, &d.Phone, &d.CustomerName, &d.Items,
		&d.AmountDue, &d.AmountPaid, &d.DeliveryFee, &d.Status, &d.Quartier, &d.Notes, &d.Carrier,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// CreateDelivery inserts a new pending delivery with nothing collected and
// no fee retained. The reference is the public tracking code.
func CreateDelivery(ctx context.Context, input models.CreateDeliveryInput) (*models.Delivery, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO deliveries (reference, agency_id, chat_id, phone, items, amount_due, quartier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+deliveryColumns,
		uuid.NewString(), input.AgencyID, input.ChatID, input.Phone, input.Items,
		input.AmountDue, input.Quartier, StatusPending,
	)
	d, err := scanDelivery(row)
	if err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}
	return d, nil
}

// FindDeliveryForUpdate returns the freshest delivery for a phone within
// an agency (agencyID 0 searches across agencies). nil when none exists;
// a status update must never create a delivery implicitly.
func FindDeliveryForUpdate(ctx context.Context, agencyID int64, phone string) (*models.Delivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE phone = $1`
	args := []interface{}{phone}
	if agencyID != 0 {
		q += ` AND agency_id = $2`
		args = append(args, agencyID)
	}
	q += ` ORDER BY created_at DESC LIMIT 1`
	return scanDelivery(db.Pool.QueryRow(ctx, q, args...))
}

// GetDeliveryByID loads one delivery, nil if absent.
func GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error) {
	return scanDelivery(db.Pool.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
}

// UpdateDelivery applies a partial update; nil fields are untouched.
// The single UPDATE is the one atomic write of a read-modify-write cycle.
func UpdateDelivery(ctx context.Context, id int64, upd models.DeliveryUpdate) error {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.CustomerName != nil {
		add("customer_name", *upd.CustomerName)
	}
	if upd.Items != nil {
		add("items", *upd.Items)
	}
	if upd.AmountDue != nil {
		add("amount_due", *upd.AmountDue)
	}
	if upd.AmountPaid != nil {
		add("amount_paid", *upd.AmountPaid)
	}
	if upd.DeliveryFee != nil {
		add("delivery_fee", *upd.DeliveryFee)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Quartier != nil {
		add("quartier", *upd.Quartier)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Carrier != nil {
		add("carrier", *upd.Carrier)
	}
	res, err := db.Pool.Exec(ctx,
		`UPDATE deliveries SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("update delivery %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", id)
	}
	return nil
}

// DeliveryFilter narrows ListDeliveries. Zero values mean "any".
type DeliveryFilter struct {
	AgencyID int64
	Phone    string
	Status   string
	Date     string // YYYY-MM-DD, matches created_at::date
	Limit    int
}

// ListDeliveries returns deliveries newest first.
func ListDeliveries(ctx context.Context, f DeliveryFilter) ([]models.Delivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE true`
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		q += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.AgencyID != 0 {
		add("agency_id = $%d", f.AgencyID)
	}
	if f.Phone != "" {
		add("phone = $%d", f.Phone)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Date != "" {
		add("created_at::date = $%d::date", f.Date)
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Delivery
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(
			&d.ID, &d.Reference, &d.AgencyID, &d.ChatID, &d.Phone, &d.CustomerName, &d.Items,
			&d.AmountDue, &d.AmountPaid, &d.DeliveryFee, &d.Status, &d.Quartier, &d.Notes, &d.Carrier,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
