// Package pebbleidx is the concrete backend.Index implementation, an
// ordered LSM key-value store (cockroachdb/pebble) standing in for Xapian.
// Pebble's prefix iteration (SeekGE + a HasPrefix break condition) maps
// directly onto posting-list semantics, the same pattern progressdb-ProgressDB
// uses for its thread/message indexes; the single-batch-per-write atomicity
// invariant mirrors drpcorg-chotki's object+index same-batch rule.
package pebbleidx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/jarrod-lowe/mailthread/internal/backend"
)

const (
	prefixTerm    byte = 't'
	prefixDoc     byte = 'd'
	prefixCounter byte = 'c'

	docPartFilename byte = 'f'
	docPartValue    byte = 'v'
	docPartTerms    byte = 't'
)

var counterKey = []byte{prefixCounter, 0x00, 'd', 'o', 'c', 'i', 'd'}

// Index is the pebble-backed backend.Index.
type Index struct {
	db *pebble.DB
}

// Open opens or creates a pebble store at path, using the OS filesystem.
func Open(path string) (*Index, error) {
	return OpenWithFS(path, vfs.Default)
}

// OpenWithFS opens or creates a pebble store at path on the given
// filesystem; tests use vfs.NewMem() in place of a real temp directory.
func OpenWithFS(path string, fs vfs.FS) (*Index, error) {
	db, err := pebble.Open(path, &pebble.Options{FS: fs})
	if err != nil {
		return nil, fmt.Errorf("open pebble store at %s: %w", path, err)
	}
	return &Index{db: db}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

func termKeyPrefix(term string) []byte {
	b := make([]byte, 0, len(term)+2)
	b = append(b, prefixTerm, 0x00)
	b = append(b, term...)
	b = append(b, 0x00)
	return b
}

func termKey(term string, id backend.DocID) []byte {
	b := termKeyPrefix(term)
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

func docKeyPrefix(id backend.DocID) []byte {
	b := make([]byte, 0, 10)
	b = append(b, prefixDoc, 0x00)
	b = binary.BigEndian.AppendUint64(b, uint64(id))
	b = append(b, 0x00)
	return b
}

func filenameKey(id backend.DocID) []byte {
	return append(docKeyPrefix(id), docPartFilename)
}

func valueKey(id backend.DocID, slot int) []byte {
	return append(docKeyPrefix(id), docPartValue, byte(slot))
}

func termsListKey(id backend.DocID) []byte {
	return append(docKeyPrefix(id), docPartTerms)
}

// postingIterator walks a pebble iterator constrained to one term's keys.
type postingIterator struct {
	iter   *pebble.Iterator
	prefix []byte
	valid  bool
	err    error
	first  bool
}

func (p *postingIterator) Next() bool {
	if p.err != nil {
		return false
	}
	if p.first {
		p.first = false
	} else {
		if !p.valid {
			return false
		}
		p.valid = p.iter.Next()
	}
	if !p.valid {
		return false
	}
	if !bytes.HasPrefix(p.iter.Key(), p.prefix) {
		p.valid = false
		return false
	}
	return true
}

func (p *postingIterator) DocID() backend.DocID {
	key := p.iter.Key()
	idBytes := key[len(p.prefix):]
	return backend.DocID(binary.BigEndian.Uint64(idBytes))
}

func (p *postingIterator) Err() error {
	if p.err != nil {
		return p.err
	}
	return p.iter.Error()
}

func (p *postingIterator) Close() error {
	return p.iter.Close()
}

func (idx *Index) PostingList(term string) (backend.PostingIterator, error) {
	prefix := termKeyPrefix(term)
	iter, err := idx.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("open posting list iterator for %q: %w", term, err)
	}
	iter.SeekGE(prefix)
	return &postingIterator{iter: iter, prefix: prefix, valid: true, first: true}, nil
}

func (idx *Index) GetDocument(id backend.DocID) (backend.Document, error) {
	v, closer, err := idx.db.Get(filenameKey(id))
	if err == pebble.ErrNotFound {
		return backend.Document{}, fmt.Errorf("document %d not found", id)
	}
	if err != nil {
		return backend.Document{}, fmt.Errorf("read document %d: %w", id, err)
	}
	filename := string(v)
	_ = closer.Close()
	return backend.Document{ID: id, Filename: filename}, nil
}

func (idx *Index) ReadValue(id backend.DocID, slot int) ([]byte, error) {
	v, closer, err := idx.db.Get(valueKey(id, slot))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read value for document %d slot %d: %w", id, slot, err)
	}
	out := append([]byte(nil), v...)
	_ = closer.Close()
	return out, nil
}

func (idx *Index) Terms(id backend.DocID) ([]string, error) {
	v, closer, err := idx.db.Get(termsListKey(id))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read terms for document %d: %w", id, err)
	}
	joined := string(v)
	_ = closer.Close()
	if joined == "" {
		return nil, nil
	}
	return strings.Split(joined, "\n"), nil
}

// SortableSerialise encodes t's POSIX timestamp as a 20-digit, zero-padded
// decimal string, so byte-wise comparison of the encoding agrees with
// numeric comparison of the timestamp for every timestamp this module
// produces (non-negative, post-1970).
func (idx *Index) SortableSerialise(t time.Time) []byte {
	unix := t.Unix()
	if t.IsZero() {
		unix = 0
	}
	return []byte(fmt.Sprintf("%020d", unix))
}

func (idx *Index) NewBatch() backend.Batch {
	return &batch{idx: idx}
}

// batch stages exactly one document's effects (terms, stored values,
// filename, term list, and the docid counter bump) and commits them in a
// single pebble.Batch.Commit call, so a single add_message either commits
// entirely or leaves the store untouched.
type batch struct {
	idx  *Index
	pb   *pebble.Batch
	used bool
}

func (b *batch) AddDocument(doc backend.NewDocument) (backend.DocID, error) {
	if b.used {
		return 0, fmt.Errorf("batch already has a staged document")
	}
	b.used = true

	nextBytes, closer, err := b.idx.db.Get(counterKey)
	var next uint64 = 1
	if err == nil {
		next = binary.BigEndian.Uint64(nextBytes)
		_ = closer.Close()
	} else if err != pebble.ErrNotFound {
		return 0, fmt.Errorf("read docid counter: %w", err)
	}

	id := backend.DocID(next)
	pb := b.idx.db.NewBatch()

	for _, term := range doc.Terms {
		if err := pb.Set(termKey(term, id), nil, nil); err != nil {
			_ = pb.Close()
			return 0, fmt.Errorf("stage term %q: %w", term, err)
		}
	}
	if err := pb.Set(filenameKey(id), []byte(doc.Filename), nil); err != nil {
		_ = pb.Close()
		return 0, fmt.Errorf("stage filename: %w", err)
	}
	for slot, val := range doc.Values {
		if err := pb.Set(valueKey(id, slot), val, nil); err != nil {
			_ = pb.Close()
			return 0, fmt.Errorf("stage value slot %d: %w", slot, err)
		}
	}
	if err := pb.Set(termsListKey(id), []byte(strings.Join(doc.Terms, "\n")), nil); err != nil {
		_ = pb.Close()
		return 0, fmt.Errorf("stage term list: %w", err)
	}
	counterBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(counterBytes, next+1)
	if err := pb.Set(counterKey, counterBytes, nil); err != nil {
		_ = pb.Close()
		return 0, fmt.Errorf("stage docid counter: %w", err)
	}

	b.pb = pb
	return id, nil
}

func (b *batch) Commit() error {
	if b.pb == nil {
		return fmt.Errorf("commit called with no staged document")
	}
	if err := b.pb.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (b *batch) Close() error {
	if b.pb == nil {
		return nil
	}
	return b.pb.Close()
}
