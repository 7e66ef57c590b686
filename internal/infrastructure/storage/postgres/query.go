package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventrack/internal/core/apperror"
)

// SelectAll builds q and scans every row into a non-nil slice.
func SelectAll[T any](ctx context.Context, querier Querier, q squirrel.Sqlizer) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []T{}
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// SelectOne builds q and scans the first row. A missing row becomes
// NotFound for entityName/key.
func SelectOne[T any](ctx context.Context, querier Querier, q squirrel.Sqlizer, entityName string, key any) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := new(T)
	if err := pgxscan.Get(ctx, querier, item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(entityName, key)
		}
		return nil, err
	}
	return item, nil
}

// Paginate applies limit and offset when they are positive.
func Paginate(q squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q
}
