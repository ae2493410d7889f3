package report

import "sync"

// LRUStore is a fixed-capacity in-memory store. When full, the least
// recently used record is evicted.
type LRUStore struct {
	mu  sync.Mutex
	cap int

	// Doubly-linked list for LRU ordering (most recent at head).
	head, tail *lruEntry
	items      map[string]*lruEntry
	latest     string // ID of the most recently saved record
}

type lruEntry struct {
	key    string
	record *Record
	prev   *lruEntry
	next   *lruEntry
}

// NewLRUStore creates an in-memory store holding at most cap records.
// Capacity must be >= 1.
func NewLRUStore(cap int) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		items: make(map[string]*lruEntry, cap),
	}
}

// Save writes the record to the store, evicting the oldest entry when
// capacity is exceeded.
func (s *LRUStore) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[rec.ID]; ok {
		e.record = rec
		s.moveToFront(e)
	} else {
		e := &lruEntry{key: rec.ID, record: rec}
		s.items[rec.ID] = e
		s.pushFront(e)
		if len(s.items) > s.cap {
			s.evict()
		}
	}
	s.latest = rec.ID
	return nil
}

// Load returns the record with the given ID and marks it recently used.
func (s *LRUStore) Load(runID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[runID]
	if !ok {
		return nil, &NotFoundError{RunID: runID}
	}
	s.moveToFront(e)
	return e.record, nil
}

// Latest returns the most recently saved record.
func (s *LRUStore) Latest() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == "" {
		return nil, &NotFoundError{}
	}
	e, ok := s.items[s.latest]
	if !ok {
		return nil, &NotFoundError{RunID: s.latest}
	}
	return e.record, nil
}

func (s *LRUStore) pushFront(e *lruEntry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *LRUStore) moveToFront(e *lruEntry) {
	if s.head == e {
		return
	}
	s.remove(e)
	s.pushFront(e)
}

func (s *LRUStore) remove(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (s *LRUStore) evict() {
	if s.tail == nil {
		return
	}
	e := s.tail
	s.remove(e)
	delete(s.items, e.key)
}
