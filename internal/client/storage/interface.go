package storage

import "context"

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent: removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
