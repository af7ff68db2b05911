package eventlog

import (
	"fmt"
	"sync"

	"github.com/google/btree"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/unicity-bridge/pkg/model"
	"github.com/near/borsh-go"
	"github.com/sirupsen/logrus"
)

const degree = 4

// Log is the ordered, append-only record of every event emitted by committed
// invocations. Sequence numbers start at 1 and have no holes.
type Log struct {
	storage storage.Storage
	index   *btree.BTree
	last    uint64
	subs    map[uint64]chan<- *model.Record
	subID   uint64
	logger  logrus.FieldLogger

	lock sync.RWMutex
}

type recordItem struct {
	record *model.Record
}

func (r *recordItem) Less(than btree.Item) bool {
	return r.record.Seq < than.(*recordItem).record.Seq
}

// New loads the records persisted in store.
func New(store storage.Storage, logger logrus.FieldLogger) (*Log, error) {
	l := &Log{
		storage: store,
		index:   btree.New(degree),
		subs:    make(map[uint64]chan<- *model.Record),
		logger:  logger,
	}

	it := store.Prefix(model.EventPrefix())
	for it.Next() {
		rec := &model.Record{}
		if err := borsh.Deserialize(rec, it.Value()); err != nil {
			return nil, fmt.Errorf("load record %s: %w", string(it.Key()), err)
		}
		if rec.Seq != l.last+1 {
			return nil, fmt.Errorf("event log corrupted: expect seq %d, got %d", l.last+1, rec.Seq)
		}
		l.index.ReplaceOrInsert(&recordItem{record: rec})
		l.last = rec.Seq
	}

	logger.WithFields(logrus.Fields{
		"records": l.last,
	}).Info("Event log loaded")

	return l, nil
}

// Stage implements host.EventSink
func (l *Log) Stage(batch storage.Batch, events []model.Event) ([]*model.Record, error) {
	l.lock.RLock()
	next := l.last + 1
	l.lock.RUnlock()

	records := make([]*model.Record, 0, len(events))
	for _, ev := range events {
		data, err := model.EncodeEvent(ev)
		if err != nil {
			return nil, err
		}
		rec := &model.Record{
			Seq:  next,
			Name: ev.EventName(),
			Data: data,
		}
		raw, err := borsh.Serialize(*rec)
		if err != nil {
			return nil, fmt.Errorf("serialize record %d: %w", rec.Seq, err)
		}
		batch.Put(model.EventKey(rec.Seq), raw)
		records = append(records, rec)
		next++
	}

	return records, nil
}

// Publish implements host.EventSink
func (l *Log) Publish(records []*model.Record) {
	if len(records) == 0 {
		return
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	for _, rec := range records {
		l.index.ReplaceOrInsert(&recordItem{record: rec})
		l.last = rec.Seq

		for id, ch := range l.subs {
			select {
			case ch <- rec:
			default:
				l.logger.WithFields(logrus.Fields{
					"subscription": id,
					"seq":          rec.Seq,
				}).Warn("Subscriber lagging, record dropped")
			}
		}
	}
}

// Get returns the record with the given sequence number.
func (l *Log) Get(seq uint64) (*model.Record, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	item := l.index.Get(&recordItem{record: &model.Record{Seq: seq}})
	if item == nil {
		return nil, false
	}
	return item.(*recordItem).record, true
}

// Range returns up to limit records starting at sequence from, in order.
// A non-positive limit means no limit.
func (l *Log) Range(from uint64, limit int) []*model.Record {
	l.lock.RLock()
	defer l.lock.RUnlock()

	records := make([]*model.Record, 0)
	l.index.AscendGreaterOrEqual(&recordItem{record: &model.Record{Seq: from}}, func(i btree.Item) bool {
		records = append(records, i.(*recordItem).record)
		return limit <= 0 || len(records) < limit
	})

	return records
}

// Last returns the sequence number of the newest record, 0 if the log is empty.
func (l *Log) Last() uint64 {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.last
}

// Subscribe registers ch for records published from now on. Delivery never
// blocks the publisher: a subscriber whose channel is full misses records
// and is expected to catch up through Range.
func (l *Log) Subscribe(ch chan<- *model.Record) *Subscription {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.subID++
	l.subs[l.subID] = ch

	return &Subscription{log: l, id: l.subID}
}

type Subscription struct {
	log  *Log
	id   uint64
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.log.lock.Lock()
		delete(s.log.subs, s.id)
		s.log.lock.Unlock()
	})
}
