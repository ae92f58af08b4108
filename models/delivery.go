package models

import "time"

// Delivery is a row from the deliveries table.
type Delivery struct {
	ID           int64
	Reference    string // public tracking code shown to agencies
	AgencyID     int64
	ChatID       int64
	Phone        string
	CustomerName string
	Items        string
	AmountDue    int64
	AmountPaid   int64 // net amount owed back to the group after fee deduction
	DeliveryFee  int64 // amount retained by the fulfilling party
	Status       string
	Quartier     string
	Notes        string
	Carrier      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateDeliveryInput struct {
	AgencyID  int64
	ChatID    int64
	Phone     string
	Items     string
	AmountDue int64
	Quartier  string
	Actor     string
}

// DeliveryUpdate is a partial update; nil fields are left untouched.
type DeliveryUpdate struct {
	Phone        *string
	CustomerName *string
	Items        *string
	AmountDue    *int64
	AmountPaid   *int64
	DeliveryFee  *int64
	Status       *string
	Quartier     *string
	Notes        *string
	Carrier      *string
}

// HistoryEntry is one audit row: a single field change on a delivery.
// Append-only, never mutated.
type HistoryEntry struct {
	ID         int64
	DeliveryID int64
	Action     string
	OldValue   string
	NewValue   string
	Actor      string
	CreatedAt  time.Time
}

// Tariff maps (agency, quartier) to a flat delivery fee.
type Tariff struct {
	ID          int64
	AgencyID    int64
	Quartier    string
	TarifAmount int64
}

// Agency is one originating group chat.
type Agency struct {
	ID        int64
	ChatID    int64
	Name      string
	CreatedAt time.Time
}

type DailyStats struct {
	DeliveriesCount int
	DeliveredCount  int
	FailedCount     int
	AmountDueSum    int64
	AmountPaidSum   int64
	DeliveryFeeSum  int64
}
