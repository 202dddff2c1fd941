// Package resolver implements the Thread Resolver (spec §4.4):
// resolve_threads(index, parents, message_id) -> set<ThreadId>, joining
// against the existing index to compute the thread identifiers a new
// message belongs to, minting a fresh one only when isolated.
package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jarrod-lowe/mailthread/internal/backend"
	"github.com/jarrod-lowe/mailthread/internal/schema"
	"github.com/jarrod-lowe/mailthread/internal/threadid"
)

const lookupCacheSize = 4096

// Resolver joins a new message's parent and child links against the index.
type Resolver struct {
	idx   backend.Index
	gen   threadid.Generator
	cache *lru.Cache[string, []threadid.ThreadID]
}

// New builds a Resolver over idx, minting ThreadIds via gen (the redesign's
// explicit collaborator in place of a global seeded-once PRNG flag, and
// injectable with a scripted Generator in tests).
func New(idx backend.Index, gen threadid.Generator) *Resolver {
	cache, _ := lru.New[string, []threadid.ThreadID](lookupCacheSize)
	return &Resolver{idx: idx, gen: gen, cache: cache}
}

// Resolve implements the algorithm in spec §4.4: children lookup on
// ref:<message_id>, then parent lookup on msgid:<parent> for each parent in
// header order, de-duplicating on first occurrence (discovery order). If
// nothing is found and message_id is present, a fresh ThreadId is minted;
// if message_id is absent, the empty set is returned (the message is left
// orphaned — see the open question this mirrors in spec §9.2).
func (r *Resolver) Resolve(parents []string, messageID string) ([]threadid.ThreadID, error) {
	seen := make(map[threadid.ThreadID]bool)
	var discovered []threadid.ThreadID
	add := func(ids []threadid.ThreadID) {
		for _, id := range ids {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			discovered = append(discovered, id)
		}
	}

	if messageID != "" {
		childIDs, err := r.lookupTerm(schema.Prefix(schema.FieldRef) + messageID)
		if err != nil {
			return nil, fmt.Errorf("children lookup for %q: %w", messageID, err)
		}
		add(childIDs)
	}

	for _, parent := range parents {
		parentIDs, err := r.lookupTerm(schema.Prefix(schema.FieldMsgID) + parent)
		if err != nil {
			return nil, fmt.Errorf("parent lookup for %q: %w", parent, err)
		}
		add(parentIDs)
	}

	if len(discovered) > 0 {
		return discovered, nil
	}
	if messageID != "" {
		return []threadid.ThreadID{r.gen.New()}, nil
	}
	return nil, nil
}

// lookupTerm reads the slot-1 ThreadId sets of every document carrying
// term, in posting-list order. Only non-empty results are cached: once a
// document is committed its slot-1 value is immutable (spec I5), so a cache
// hit can never go stale. A miss is never cached, because the term may
// belong to a message that has not been ingested yet (spec scenario 3,
// "parent after child") and would otherwise wrongly stay a miss forever.
func (r *Resolver) lookupTerm(term string) ([]threadid.ThreadID, error) {
	if cached, ok := r.cache.Get(term); ok {
		return cached, nil
	}

	it, err := r.idx.PostingList(term)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var ids []threadid.ThreadID
	for it.Next() {
		v, err := r.idx.ReadValue(it.DocID(), schema.SlotThread)
		if err != nil {
			return nil, err
		}
		ids = append(ids, splitThreadIDs(v)...)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		r.cache.Add(term, ids)
	}
	return ids, nil
}

func splitThreadIDs(v []byte) []threadid.ThreadID {
	if len(v) == 0 {
		return nil
	}
	var ids []threadid.ThreadID
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				ids = append(ids, threadid.ThreadID(v[start:i]))
			}
			start = i + 1
		}
	}
	return ids
}
