package repositories

import (
	"context"
	"database/sql"
	"errors"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// KeysRepo looks up API keys for the auth middleware. Keys live on the
// raw sqlx pool; they are written by the operator tool, never by the
// engine itself.
type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

func (r *KeysRepo) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, constants.GetStatusByApiKey, key).StructScan(&keyRes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constants.NewNotFoundError("api key", key)
		}
		return nil, err
	}

	return &keyRes, nil
}
