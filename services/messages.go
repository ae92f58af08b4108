package services

import (
	"context"
	"encoding/json"
	"fmt"

	"livraison-telegram/db"
)

const outboundRole = "system/outbound"

// SaveOutboundMessage persists an outbound confirmation or report message.
func SaveOutboundMessage(ctx context.Context, chatID int64, content string, meta map[string]interface{}) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO messages (chat_id, role, content, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		chatID, outboundRole, content, metaJSON,
	)
	return err
}

// SentConfirmationWithin30s returns true if a confirmation for the same
// delivery and action was already sent in the last 30 seconds (de-dup for
// double-posted chat messages).
func SentConfirmationWithin30s(ctx context.Context, deliveryID int64, action string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE role = $1 AND meta->>'sent_via' = 'delivery_confirm'
		  AND (meta->>'delivery_id') = $2 AND meta->>'action' = $3
		  AND created_at > now() - interval '30 seconds'`,
		outboundRole, fmt.Sprintf("%d", deliveryID), action,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ConfirmationText is the short group reply describing what a message did.
func ConfirmationText(res *ProcessResult) string {
	switch res.Action {
	case ActionCreated:
		d := res.Delivery
		return fmt.Sprintf("Livraison enregistrée: %s, %d à collecter (%s)", d.Phone, d.AmountDue, d.Quartier)
	case ActionUpdated:
		d := res.Delivery
		return fmt.Sprintf("Mise à jour %s: %s — statut %s, net %d, frais %d", res.Subtype, d.Phone, d.Status, d.AmountPaid, d.DeliveryFee)
	case ActionNotFound:
		return "Aucune livraison trouvée pour ce numéro."
	case ActionIncomplete:
		return incompleteText(res.Subtype)
	default:
		return ""
	}
}

func incompleteText(subtype string) string {
	switch subtype {
	case UpdatePayment:
		return "Paiement incomplet: numéro ou montant manquant."
	case UpdateNumberChange:
		return "Changement de numéro: deux numéros sont nécessaires."
	default:
		return "Message incomplet, rien appliqué."
	}
}
