package services

import (
	"context"

	"livraison-telegram/db"
	"livraison-telegram/models"
)

// GetDailyStats aggregates deliveries created on one date (YYYY-MM-DD)
// for an agency (agencyID 0 = all agencies).
func GetDailyStats(ctx context.Context, agencyID int64, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COUNT(*) FILTER (WHERE status = $3)::int,
			COUNT(*) FILTER (WHERE status = $4)::int,
			COALESCE(SUM(amount_due), 0)::bigint,
			COALESCE(SUM(amount_paid), 0)::bigint,
			COALESCE(SUM(delivery_fee), 0)::bigint
		FROM deliveries
		WHERE created_at::date = $1::date
		  AND ($2 = 0 OR agency_id = $2)`,
		date, agencyID, StatusDelivered, StatusFailed,
	).Scan(&s.DeliveriesCount, &s.DeliveredCount, &s.FailedCount,
		&s.AmountDueSum, &s.AmountPaidSum, &s.DeliveryFeeSum)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
