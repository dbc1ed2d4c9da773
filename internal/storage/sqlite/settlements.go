package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// AppendSettlement persists a settlement and the group lock it produces.
func (s *SQLiteStore) AppendSettlement(ctx context.Context, settlement *models.Settlement, lock models.SettlementMethod, closeRound bool) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	round, err := currentRound(ctx, tx, settlement.GroupID)
	if err != nil {
		return err
	}
	if round != settlement.Round {
		return fmt.Errorf("group %s is in round %d, settlement was validated against round %d: %w",
			settlement.GroupID, round, settlement.Round, storage.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, payer_id, payee_id, amount_minor, currency, method, notes, round, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.PayeeID,
		settlement.Amount.Amount, settlement.Amount.Currency, string(settlement.Method),
		nullIfEmpty(settlement.Notes), settlement.Round, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	if closeRound {
		_, err = tx.ExecContext(ctx,
			"UPDATE groups SET settlement_lock = '', round = round + 1 WHERE id = ?",
			settlement.GroupID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE groups SET settlement_lock = ? WHERE id = ?",
			string(lock), settlement.GroupID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update settlement lock: %w", err)
	}

	if err := bumpVersion(ctx, tx, settlement.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlements retrieves one round of a group's settlements.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string, round int64) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, payer_id, payee_id, amount_minor, currency, method, notes, round, created_at
		 FROM settlements WHERE group_id = ? AND round = ? ORDER BY seq`,
		groupID, round,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var method string
		var notes sql.NullString
		if err := rows.Scan(&st.ID, &st.GroupID, &st.PayerID, &st.PayeeID, &st.Amount.Amount, &st.Amount.Currency,
			&method, &notes, &st.Round, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		st.Method = models.SettlementMethod(method)
		st.Notes = notes.String
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
