package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const keyLastSelection = "last_selection"

type preferenceRepo struct {
	db *sql.DB
}

func (r *preferenceRepo) SaveSelection(ctx context.Context, topicIDs []string) error {
	return r.set(ctx, keyLastSelection, strings.Join(topicIDs, ","))
}

func (r *preferenceRepo) LastSelection(ctx context.Context) ([]string, error) {
	v, ok, err := r.get(ctx, keyLastSelection)
	if err != nil || !ok || v == "" {
		return nil, err
	}
	return strings.Split(v, ","), nil
}

func (r *preferenceRepo) set(ctx context.Context, key, value string) error {
	query, args := builder().Insert("preferences").
		Columns("key", "value", "updated_at").
		Values(key, value, millis(time.Now())).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

func (r *preferenceRepo) get(ctx context.Context, key string) (string, bool, error) {
	b := builder()
	query, args := b.Select("value").From(b.Table("preferences")).Where(entsql.EQ("key", key)).Query()

	var v string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load preference %s: %w", key, err)
	}
	return v, true, nil
}
