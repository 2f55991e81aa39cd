// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badger implements a local, file-backed vector store on BadgerDB.
// Records are stored as JSON values under per-namespace key prefixes and
// queried by brute-force cosine similarity. It serves development and
// testing runs that should not touch a hosted index.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/docindex/index"
)

// Store is a BadgerDB-backed index.Store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ index.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a store at the specified path, creating the directory if it
// doesn't exist. With inMemory true the path is ignored and nothing is
// persisted.
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "badger-store"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// recordKey generates a key for a record in a namespace.
func recordKey(namespace, id string) []byte {
	return []byte(fmt.Sprintf("vec:%s:%s", namespace, id))
}

// namespacePrefix generates the scan prefix for a namespace.
func namespacePrefix(namespace string) []byte {
	return []byte(fmt.Sprintf("vec:%s:", namespace))
}

// Upsert writes records into the namespace. Existing ids are overwritten.
// Vectors are normalized to unit length before storage so that stored
// scores stay comparable as plain dot products.
func (s *Store) Upsert(ctx context.Context, namespace string, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, record := range records {
		record.Values = index.NormalizeVector(record.Values)
		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", record.ID, err)
		}
		if err := wb.Set(recordKey(namespace, record.ID), value); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	s.logger.Debug("upserted records", "namespace", namespace, "count", len(records))
	return nil
}

// Query scans the namespace and returns the topK records by cosine
// similarity, descending.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]index.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	var matches []index.Match
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = namespacePrefix(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record index.Record
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			if len(record.Values) == 0 {
				continue
			}

			matches = append(matches, index.Match{
				ID:       record.ID,
				Score:    index.CosineSimilarity(vector, record.Values),
				Metadata: record.Metadata,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b index.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
