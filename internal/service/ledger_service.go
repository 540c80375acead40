package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/repository"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// LedgerService es el CRUD sobre la colección de transacciones de un
// usuario. Toda mutación persiste de inmediato (write-through).
type LedgerService struct {
	logger *zap.Logger
	txs    repository.TransactionRepository
	now    func() time.Time
}

func NewLedgerService(logger *zap.Logger, txs repository.TransactionRepository) *LedgerService {
	return &LedgerService{
		logger: logger,
		txs:    txs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj; para tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// Add asigna id y dueño, antepone la transacción (invariante: la más
// nueva primero) y persiste.
func (s *LedgerService) Add(ctx context.Context, userID string, tx domain.Transaction) (domain.Transaction, error) {
	if tx.Amount.IsNegative() {
		return domain.Transaction{}, ErrInvalidTransaction
	}
	if tx.Type != domain.TypeIncome && tx.Type != domain.TypeExpense {
		return domain.Transaction{}, ErrInvalidTransaction
	}

	tx.ID = uuid.NewString()
	tx.UserID = userID
	if tx.Timestamp.IsZero() {
		tx.Timestamp = s.now()
	}

	list, err := s.txs.Load(ctx, userID)
	if err != nil {
		return domain.Transaction{}, err
	}
	list = append([]domain.Transaction{tx}, list...)
	if err := s.txs.Save(ctx, userID, list); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// Update mezcla los campos presentes en la transacción con ese id.
// Devuelve ErrTransactionNotFound si no existe.
func (s *LedgerService) Update(ctx context.Context, userID, id string, update domain.TransactionUpdate) (domain.Transaction, error) {
	if update.Amount != nil && update.Amount.IsNegative() {
		return domain.Transaction{}, ErrInvalidTransaction
	}
	if update.Type != nil && *update.Type != domain.TypeIncome && *update.Type != domain.TypeExpense {
		return domain.Transaction{}, ErrInvalidTransaction
	}

	list, err := s.txs.Load(ctx, userID)
	if err != nil {
		return domain.Transaction{}, err
	}
	for i, tx := range list {
		if tx.ID != id {
			continue
		}
		list[i] = update.Apply(tx)
		if err := s.txs.Save(ctx, userID, list); err != nil {
			return domain.Transaction{}, err
		}
		return list[i], nil
	}
	return domain.Transaction{}, ErrTransactionNotFound
}

// Delete elimina la transacción si existe. Borrar dos veces deja el
// mismo estado que borrar una; devuelve si algo se eliminó.
func (s *LedgerService) Delete(ctx context.Context, userID, id string) (bool, error) {
	list, err := s.txs.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	for i, tx := range list {
		if tx.ID != id {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if err := s.txs.Save(ctx, userID, list); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// List devuelve la colección completa del usuario, más nueva primero.
func (s *LedgerService) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.txs.Load(ctx, userID)
}
