package services

import (
	"context"
	"errors"
	"strings"

	"livraison-telegram/db"
	"livraison-telegram/models"

	"github.com/jackc/pgx/v5"
)

// GetTariff returns the flat fee for (agency, quartier), nil when no row
// exists. Quartier matching is case-insensitive: staff type neighborhood
// names freely.
func GetTariff(ctx context.Context, agencyID int64, quartier string) (*int64, error) {
	quartier = strings.TrimSpace(quartier)
	if quartier == "" {
		return nil, nil
	}
	var amount int64
	err := db.Pool.QueryRow(ctx, `
		SELECT tarif_amount FROM tariffs
		WHERE agency_id = $1 AND lower(quartier) = lower($2)`,
		agencyID, quartier,
	).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &amount, nil
}

// UpsertTariff creates or replaces the fee for (agency, quartier).
func UpsertTariff(ctx context.Context, agencyID int64, quartier string, amount int64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO tariffs (agency_id, quartier, tarif_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (agency_id, quartier) DO UPDATE SET tarif_amount = EXCLUDED.tarif_amount, updated_at = now()`,
		agencyID, strings.TrimSpace(quartier), amount,
	)
	return err
}

// ListTariffs returns all tariffs of one agency ordered by quartier.
func ListTariffs(ctx context.Context, agencyID int64) ([]models.Tariff, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, agency_id, quartier, tarif_amount
		FROM tariffs WHERE agency_id = $1 ORDER BY quartier`,
		agencyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Tariff
	for rows.Next() {
		var t models.Tariff
		if err := rows.Scan(&t.ID, &t.AgencyID, &t.Quartier, &t.TarifAmount); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
