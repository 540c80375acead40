package repository

import (
	"context"
	"encoding/json"
	"errors"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

const attemptPrefix = "login_attempts_"

// AttemptRepository persiste el contador de intentos fallidos por email.
type AttemptRepository interface {
	Get(ctx context.Context, email string) (domain.LoginAttemptRecord, error)
	Put(ctx context.Context, email string, record domain.LoginAttemptRecord) error
	Clear(ctx context.Context, email string) error
}

// KVAttemptRepository implementa AttemptRepository sobre kv.
type KVAttemptRepository struct {
	store kv.Store
}

func NewKVAttemptRepository(store kv.Store) *KVAttemptRepository {
	return &KVAttemptRepository{store: store}
}

// Get devuelve el registro del email; cero si nunca falló.
func (r *KVAttemptRepository) Get(ctx context.Context, email string) (domain.LoginAttemptRecord, error) {
	data, err := r.store.Get(ctx, attemptPrefix+email)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.LoginAttemptRecord{}, nil
	}
	if err != nil {
		return domain.LoginAttemptRecord{}, err
	}
	var record domain.LoginAttemptRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.LoginAttemptRecord{}, err
	}
	return record, nil
}

func (r *KVAttemptRepository) Put(ctx context.Context, email string, record domain.LoginAttemptRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, attemptPrefix+email, data)
}

func (r *KVAttemptRepository) Clear(ctx context.Context, email string) error {
	return r.store.Delete(ctx, attemptPrefix+email)
}
