package repository

import (
	"context"
	"encoding/json"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

const sessionPrefix = "session_"

// SessionRepository persiste la sesión vigente de un usuario:
// el registro del usuario sin credencial ni banderas internas.
type SessionRepository interface {
	Put(ctx context.Context, user domain.User) error
	Get(ctx context.Context, userID string) (domain.User, error)
	Delete(ctx context.Context, userID string) error
}

// KVSessionRepository implementa SessionRepository sobre kv.
type KVSessionRepository struct {
	store kv.Store
}

func NewKVSessionRepository(store kv.Store) *KVSessionRepository {
	return &KVSessionRepository{store: store}
}

func (r *KVSessionRepository) Put(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user.Sanitized())
	if err != nil {
		return err
	}
	return r.store.Set(ctx, sessionPrefix+user.ID, data)
}

func (r *KVSessionRepository) Get(ctx context.Context, userID string) (domain.User, error) {
	data, err := r.store.Get(ctx, sessionPrefix+userID)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Delete es idempotente: borrar una sesión inexistente no es error.
func (r *KVSessionRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, sessionPrefix+userID)
}
