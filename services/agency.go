package services

import (
	"context"
	"errors"
	"fmt"

	"livraison-telegram/db"
	"livraison-telegram/models"

	"github.com/jackc/pgx/v5"
)

// EnsureAgency returns the agency for a group chat, creating it on the
// first message from that chat.
func EnsureAgency(ctx context.Context, chatID int64, name string) (*models.Agency, error) {
	var a models.Agency
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO agencies (chat_id, name)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO UPDATE SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE agencies.name END
		RETURNING id, chat_id, name, created_at`,
		chatID, name,
	).Scan(&a.ID, &a.ChatID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure agency: %w", err)
	}
	return &a, nil
}

// GetAgencyByChatID loads an agency by its group chat, nil if absent.
func GetAgencyByChatID(ctx context.Context, chatID int64) (*models.Agency, error) {
	var a models.Agency
	err := db.Pool.QueryRow(ctx, `
		SELECT id, chat_id, name, created_at FROM agencies WHERE chat_id = $1`,
		chatID,
	).Scan(&a.ID, &a.ChatID, &a.Name, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
