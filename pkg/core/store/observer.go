package store

import (
	"sort"

	"github.com/scienceol/labstock/pkg/core/reagent"
)

// Subscribe registers fn for every committed mutation. Callbacks run on the
// mutating goroutine after the store lock is released, in commit order
// across all callers. fn may read the store but must not mutate it. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot calls fn with copies of every record, ordered by id, and the
// sequence fn runs at. Every change committed before the snapshot has been
// delivered when fn runs, and later changes are delivered after it returns.
// fn must not mutate the store.
func (s *Store) Snapshot(fn func(records []*reagent.Record, seq uint64)) {
	s.mu.Lock()
	records := s.list()
	s.version++
	seq := s.version
	s.mu.Unlock()

	s.waitTurn(seq - 1)
	defer s.endTurn(seq)
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	fn(records, seq)
}

// publish queues a change; caller holds mu.
func (s *Store) publish(op Op, r *reagent.Record) {
	s.version++
	s.pending = append(s.pending, Change{Op: op, Record: r.Clone(), Seq: s.version})
}

// unlock releases mu and then delivers queued changes.
func (s *Store) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(pending) == 0 {
		return
	}

	s.waitTurn(pending[0].Seq - 1)
	defer s.endTurn(pending[len(pending)-1].Seq)

	s.subMu.RLock()
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, c := range pending {
		for _, fn := range subs {
			fn(Change{Op: c.Op, Record: c.Record.Clone(), Seq: c.Seq})
		}
	}
}

// waitTurn blocks until everything up to after has been delivered.
func (s *Store) waitTurn(after uint64) {
	s.deliverMu.Lock()
	for s.delivered < after {
		s.turn.Wait()
	}
	s.deliverMu.Unlock()
}

func (s *Store) endTurn(last uint64) {
	s.deliverMu.Lock()
	s.delivered = last
	s.turn.Broadcast()
	s.deliverMu.Unlock()
}
