package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// CreateExpense appends an expense and its splits, stamped with the group's round.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	round, err := currentRound(ctx, tx, expense.GroupID)
	if err != nil {
		return err
	}
	expense.Round = round

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount_minor, currency, paid_by, split_policy, round, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount.Amount, expense.Amount.Currency,
		expense.PaidBy, string(expense.Policy), expense.Round, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount_minor) VALUES (?, ?, ?)",
			expense.ID, split.UserID, split.Amount.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := bumpVersion(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses retrieves one round of a group's expenses with their splits.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, round int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount_minor, currency, paid_by, split_policy, round, created_at
		 FROM expenses WHERE group_id = ? AND round = ? ORDER BY seq`,
		groupID, round,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var policy string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount.Amount, &e.Amount.Currency,
			&e.PaidBy, &policy, &e.Round, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Policy = models.SplitPolicy(policy)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, es.amount_minor
		 FROM expense_splits es JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ? AND e.round = ?
		 ORDER BY e.seq, es.user_id`,
		groupID, round,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID, userID string
		var amount int64
		if err := splitRows.Scan(&expenseID, &userID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			continue
		}
		e := &expenses[i]
		e.Splits = append(e.Splits, models.Split{
			UserID: userID,
			Amount: money.New(amount, e.Amount.Currency),
		})
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return expenses, nil
}
