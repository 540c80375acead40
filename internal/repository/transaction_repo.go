package repository

import (
	"context"
	"encoding/json"
	"errors"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

const transactionsPrefix = "transactions_"

// TransactionRepository persiste la colección de transacciones de cada
// usuario como un documento único, ordenado de más nueva a más vieja.
type TransactionRepository interface {
	Load(ctx context.Context, userID string) ([]domain.Transaction, error)
	Save(ctx context.Context, userID string, txs []domain.Transaction) error
}

// KVTransactionRepository implementa TransactionRepository sobre kv.
type KVTransactionRepository struct {
	store kv.Store
}

func NewKVTransactionRepository(store kv.Store) *KVTransactionRepository {
	return &KVTransactionRepository{store: store}
}

// Load devuelve la colección del usuario; vacía si aún no existe.
func (r *KVTransactionRepository) Load(ctx context.Context, userID string) ([]domain.Transaction, error) {
	data, err := r.store.Get(ctx, transactionsPrefix+userID)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var txs []domain.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *KVTransactionRepository) Save(ctx context.Context, userID string, txs []domain.Transaction) error {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, transactionsPrefix+userID, data)
}
