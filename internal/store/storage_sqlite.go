// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-client/internal/logger"
)

type sqliteStorage struct {
	db *DB
	*notifier
	logger *logger.Logger
}

// NewSQLiteStorage wraps an open, migrated database as a [KeyValueStorage].
func NewSQLiteStorage(db *DB, logger *logger.Logger) KeyValueStorage {
	return &sqliteStorage{
		db:       db,
		notifier: newNotifier(),
		logger:   logger,
	}
}

func (s *sqliteStorage) Get(ctx context.Context, key string) (string, error) {
	query, args, err := buildGetQuery(key)
	if err != nil {
		return "", err
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Get").Str("key", key).Msg("failed to read value")
		return "", fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return value, nil
}

func (s *sqliteStorage) Set(ctx context.Context, key, value string) error {
	query, args, err := buildSetQuery(key, value)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Set").Str("key", key).Msg("failed to upsert value")
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	s.publish(Change{Key: key, Value: value})
	return nil
}

func (s *sqliteStorage) Remove(ctx context.Context, key string) error {
	query, args, err := buildRemoveQuery(key)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Remove").Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	s.publish(Change{Key: key, Removed: true})
	return nil
}

func (s *sqliteStorage) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}

	query, args, err := buildClearQuery()
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Clear").Msg("failed to clear storage")
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	for _, k := range keys {
		s.publish(Change{Key: k, Removed: true})
	}
	return nil
}

func (s *sqliteStorage) Keys(ctx context.Context) ([]string, error) {
	query, args, err := buildKeysQuery()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Keys").Msg("failed to list keys")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err = rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		keys = append(keys, k)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
	}

	return keys, nil
}

func (s *sqliteStorage) Subscribe() (<-chan Change, func()) {
	return s.subscribe()
}
