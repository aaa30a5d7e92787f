package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/boltdb/bolt"
)

var diagramBucket = []byte("diagrams")

// LibraryEntry describes one stored diagram.
type LibraryEntry struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Nodes   int             `json:"nodes"`
	Edges   int             `json:"edges"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Library stores named diagrams in a bolt database.
type Library struct {
	store *bolt.DB
}

// OpenLibrary opens or creates the library at path.
func OpenLibrary(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	err = store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(diagramBucket)
		return err
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	return &Library{store: store}, nil
}

func (l *Library) Close() error {
	if l.store != nil {
		err := l.store.Close()
		l.store = nil
		return err
	}
	return nil
}

func libraryKey(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("diagram name is empty")
	}
	return []byte(name), nil
}

// Save stores d under its name, replacing any diagram of the same name.
func (l *Library) Save(d Document) (LibraryEntry, error) {
	key, err := libraryKey(d.Name)
	if err != nil {
		return LibraryEntry{}, err
	}
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, d); err != nil {
		return LibraryEntry{}, err
	}
	entry := LibraryEntry{
		ID:      d.ID,
		Name:    string(key),
		Nodes:   d.Graph.NodeCount(),
		Edges:   d.Graph.EdgeCount(),
		SavedAt: time.Now().UTC(),
		Data:    json.RawMessage(bytes.TrimSpace(buf.Bytes())),
	}
	err = l.store.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return tx.Bucket(diagramBucket).Put(key, data)
	})
	if err != nil {
		return LibraryEntry{}, fmt.Errorf("save %q: %w", d.Name, err)
	}
	entry.Data = nil
	return entry, nil
}

// Open loads the diagram stored under name.
func (l *Library) Open(name string, opts ...GraphOption) (Document, error) {
	key, err := libraryKey(name)
	if err != nil {
		return Document{}, err
	}
	var entry LibraryEntry
	err = l.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(diagramBucket).Get(key)
		if data == nil {
			return ErrDiagramNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return Document{}, fmt.Errorf("open %q: %w", name, err)
	}
	d, err := DecodeDocument(bytes.NewReader(entry.Data), opts...)
	if err != nil {
		return Document{}, fmt.Errorf("open %q: %w", name, err)
	}
	if d.Name == "" {
		d.Name = entry.Name
	}
	return d, nil
}

// Delete removes the diagram stored under name.
func (l *Library) Delete(name string) error {
	key, err := libraryKey(name)
	if err != nil {
		return err
	}
	return l.store.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(diagramBucket)
		if b.Get(key) == nil {
			return fmt.Errorf("delete %q: %w", name, ErrDiagramNotFound)
		}
		return b.Delete(key)
	})
}

// List returns every stored diagram without its data, newest first.
func (l *Library) List() ([]LibraryEntry, error) {
	var entries []LibraryEntry
	err := l.store.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(diagramBucket).Cursor()
		for k, data := c.First(); k != nil; k, data = c.Next() {
			var e LibraryEntry
			if err := json.Unmarshal(data, &e); err != nil {
				return fmt.Errorf("entry %q: %w", k, err)
			}
			e.Data = nil
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}
