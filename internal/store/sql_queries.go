package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const kvTable = "kv"

// builder renders "?" placeholders for SQLite.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildGetQuery(key string) (string, []any, error) {
	query, args, err := builder.
		Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSetQuery(key, value string) (string, []any, error) {
	query, args, err := builder.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildRemoveQuery(key string) (string, []any, error) {
	query, args, err := builder.
		Delete(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildClearQuery() (string, []any, error) {
	query, args, err := builder.Delete(kvTable).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildKeysQuery() (string, []any, error) {
	query, args, err := builder.
		Select("key").
		From(kvTable).
		OrderBy("key").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
