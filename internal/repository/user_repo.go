package repository

import (
	"context"
	"encoding/json"
	"errors"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

const userPrefix = "user_"

// UserRepository define el contrato de persistencia para usuarios.
// El registro completo (con credencial y banderas) vive bajo user_<email>.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// KVUserRepository implementa UserRepository sobre el puerto kv.
type KVUserRepository struct {
	store kv.Store
}

func NewKVUserRepository(store kv.Store) *KVUserRepository {
	return &KVUserRepository{store: store}
}

func (r *KVUserRepository) Create(ctx context.Context, user domain.User) error {
	return r.put(ctx, user)
}

func (r *KVUserRepository) Update(ctx context.Context, user domain.User) error {
	return r.put(ctx, user)
}

func (r *KVUserRepository) put(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, userPrefix+user.Email, data)
}

func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	data, err := r.store.Get(ctx, userPrefix+email)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetByID recorre la colección; la escala es un negocio, no una flota.
func (r *KVUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	records, err := r.store.ListByPrefix(ctx, userPrefix)
	if err != nil {
		return domain.User{}, err
	}
	for _, data := range records {
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			continue
		}
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, kv.ErrNotFound
}

// IsNotFound indica si el error corresponde a un registro inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, kv.ErrNotFound)
}
