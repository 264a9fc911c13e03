package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// CreateTransaction сохраняет новую запись о платеже в статусе PENDING
// и возвращает её ID. Повторный gateway_order_id приводит к ErrDuplicate.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) (string, error) {
	const op = "repository.CreateTransaction"

	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO transactions
			      (user_id, amount, currency, kind, status, gateway_order_id, description, metadata)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		tx.UserID, tx.Amount, tx.Currency, tx.Kind, models.TransactionPending,
		tx.GatewayOrderID, tx.Description, metadata).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTransactionByOrderID возвращает транзакцию по идентификатору заказа
// платёжного шлюза или ErrNotFound.
func (s *Storage) GetTransactionByOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error) {
	const op = "repository.GetTransactionByOrderID"

	query := `SELECT id, user_id, amount, currency, kind, status, gateway_order_id,
			      gateway_payment_id, description, metadata, created_at, updated_at
			  FROM transactions
			  WHERE gateway_order_id = $1`
	tx := &models.Transaction{}
	var paymentID sql.NullString
	var metadata []byte
	row := s.DB.QueryRowContext(ctx, query, gatewayOrderID)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Currency, &tx.Kind,
		&tx.Status, &tx.GatewayOrderID, &paymentID, &tx.Description, &metadata,
		&tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, mapRowErr(op, err)
	}
	if paymentID.Valid {
		tx.GatewayPaymentID = &paymentID.String
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return tx, nil
}

// MarkTransactionSuccess переводит транзакцию из PENDING в SUCCESS и сохраняет
// идентификатор платежа. Терминальные записи не затрагиваются: возвращает true,
// только если переход произошёл именно сейчас.
func (s *Storage) MarkTransactionSuccess(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (bool, error) {
	const op = "repository.MarkTransactionSuccess"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE transactions
		 SET status = $3, gateway_payment_id = $2, updated_at = now()
		 WHERE gateway_order_id = $1 AND status = $4`,
		gatewayOrderID, gatewayPaymentID, models.TransactionSuccess, models.TransactionPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// MarkTransactionFailed переводит транзакцию из PENDING в FAILED.
// Терминальные записи не затрагиваются.
func (s *Storage) MarkTransactionFailed(ctx context.Context, gatewayOrderID string) (bool, error) {
	const op = "repository.MarkTransactionFailed"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE transactions
		 SET status = $2, updated_at = now()
		 WHERE gateway_order_id = $1 AND status = $3`,
		gatewayOrderID, models.TransactionFailed, models.TransactionPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}
