package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

const docSuffix = ".json"

// EntityStore persists JSON documents keyed by namespace and id. It is the
// only component that touches the FileStore; all other packages address
// documents through it.
type EntityStore struct {
	files FileStore
	ids   IdGenerator
}

// New creates an EntityStore over the given file store and id generator.
func New(files FileStore, ids IdGenerator) *EntityStore {
	return &EntityStore{files: files, ids: ids}
}

// docPath derives the storage path for a document. Every document of a
// namespace lives at <namespace>/<id>.json; nothing else may derive paths.
func docPath(namespace, id string) string {
	return path.Join(namespace, id+docSuffix)
}

// Create serializes doc under a generated id and returns the id used.
func (s *EntityStore) Create(ctx context.Context, namespace string, doc any) (string, error) {
	id := s.ids.Next()
	if err := s.CreateWithID(ctx, namespace, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// CreateWithID serializes doc under a caller-supplied id.
func (s *EntityStore) CreateWithID(ctx context.Context, namespace, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", namespace, id, err)
	}
	if err := s.files.Write(docPath(namespace, id), data); err != nil {
		return fmt.Errorf("store %s/%s: %w", namespace, id, err)
	}
	return nil
}

// Load deserializes the document at namespace/id into out. It performs no
// existence pre-check; a missing document surfaces as ErrNotFound.
func (s *EntityStore) Load(ctx context.Context, namespace, id string, out any) error {
	data, err := s.files.Read(docPath(namespace, id))
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("load %s/%s: %w", namespace, id, ErrNotFound)
		}
		return fmt.Errorf("load %s/%s: %w", namespace, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", namespace, id, err)
	}
	return nil
}

// Exists reports whether a document is stored at namespace/id.
func (s *EntityStore) Exists(ctx context.Context, namespace, id string) (bool, error) {
	ok, err := s.files.Exists(docPath(namespace, id))
	if err != nil {
		return false, fmt.Errorf("check %s/%s: %w", namespace, id, err)
	}
	return ok, nil
}

// Append adds item to the named ordered-sequence field of a document,
// initializing the field to an empty sequence if absent, and writes the
// whole document back. This is a read-modify-write over the full document
// with no locking: two concurrent appends to the same document can lose
// the slower writer's update (last writer wins at document granularity).
func (s *EntityStore) Append(ctx context.Context, namespace, id, field string, item any) error {
	var doc map[string]any
	if err := s.Load(ctx, namespace, id, &doc); err != nil {
		return err
	}

	seq, _ := doc[field].([]any)
	doc[field] = append(seq, item)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", namespace, id, err)
	}
	if err := s.files.Write(docPath(namespace, id), data); err != nil {
		return fmt.Errorf("store %s/%s: %w", namespace, id, err)
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
