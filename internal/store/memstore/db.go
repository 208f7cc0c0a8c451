// Package memstore keeps every table in process memory. It mirrors the
// postgres store closely enough to back logic tests and local runs.
package memstore

import (
	"context"
	"maps"
	"sync"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/types"
)

type pair [2]int64

type tables struct {
	users              map[int64]types.User
	workspaces         map[int64]types.Workspace
	groups             map[int64]types.Group
	memberships        map[pair]types.Membership // user, workspace
	assignments        map[int64]types.Assignment
	questions          map[int64]types.Question
	reviews            map[int64]types.Review
	ratings            map[pair]types.Rating // review, question
	analytics          map[pair]types.Analytics // user, assignment
	journalAssignments map[int64]types.JournalAssignment
	journalEntries     map[pair]types.JournalEntry // journal assignment, user
}

func newTables() tables {
	return tables{
		users:              make(map[int64]types.User),
		workspaces:         make(map[int64]types.Workspace),
		groups:             make(map[int64]types.Group),
		memberships:        make(map[pair]types.Membership),
		assignments:        make(map[int64]types.Assignment),
		questions:          make(map[int64]types.Question),
		reviews:            make(map[int64]types.Review),
		ratings:            make(map[pair]types.Rating),
		analytics:          make(map[pair]types.Analytics),
		journalAssignments: make(map[int64]types.JournalAssignment),
		journalEntries:     make(map[pair]types.JournalEntry),
	}
}

func (t tables) clone() tables {
	return tables{
		users:              maps.Clone(t.users),
		workspaces:         maps.Clone(t.workspaces),
		groups:             maps.Clone(t.groups),
		memberships:        maps.Clone(t.memberships),
		assignments:        maps.Clone(t.assignments),
		questions:          maps.Clone(t.questions),
		reviews:            maps.Clone(t.reviews),
		ratings:            maps.Clone(t.ratings),
		analytics:          maps.Clone(t.analytics),
		journalAssignments: maps.Clone(t.journalAssignments),
		journalEntries:     maps.Clone(t.journalEntries),
	}
}

type txKey struct{}

type failure struct {
	err   error
	id    int64
	times int
}

type DB struct {
	mu   sync.Mutex
	txMu sync.Mutex
	t    tables

	failMu sync.Mutex
	fail   map[string][]*failure
}

var _ store.Provider = (*DB)(nil)

func New() *DB {
	return &DB{
		t:    newTables(),
		fail: make(map[string][]*failure),
	}
}

// InjectError makes the named operation (e.g. "ReviewStore.BatchCreate")
// fail with err. A nil err clears every failure of op.
func (db *DB) InjectError(op string, err error) {
	db.inject(op, &failure{err: err})
}

// InjectErrorFor fails op only when it works on the given id, the assignment
// id for review and analytics writes.
func (db *DB) InjectErrorFor(op string, id int64, err error) {
	db.inject(op, &failure{err: err, id: id})
}

// InjectErrorTimes fails op for the next n calls.
func (db *DB) InjectErrorTimes(op string, n int, err error) {
	db.inject(op, &failure{err: err, times: n})
}

func (db *DB) inject(op string, f *failure) {
	db.failMu.Lock()
	defer db.failMu.Unlock()
	if f.err == nil {
		delete(db.fail, op)
		return
	}
	db.fail[op] = append(db.fail[op], f)
}

func (db *DB) injected(op string, id int64) error {
	db.failMu.Lock()
	defer db.failMu.Unlock()
	for _, f := range db.fail[op] {
		if f.id != 0 && f.id != id {
			continue
		}
		if f.times < 0 {
			continue
		}
		if f.times > 0 {
			f.times--
			if f.times == 0 {
				f.times = -1
			}
		}
		return f.err
	}
	return nil
}

// Transaction serializes transactions and restores a snapshot when f fails.
func (db *DB) Transaction(ctx context.Context, f func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return f(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	snapshot := db.t.clone()
	db.mu.Unlock()

	rollback := func() {
		db.mu.Lock()
		db.t = snapshot
		db.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = f(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
	}
	return err
}

func (db *DB) UserStore() store.UserStore { return &UserStore{db} }
func (db *DB) WorkspaceStore() store.WorkspaceStore { return &WorkspaceStore{db} }
func (db *DB) GroupStore() store.GroupStore { return &GroupStore{db} }
func (db *DB) MembershipStore() store.MembershipStore { return &MembershipStore{db} }
func (db *DB) AssignmentStore() store.AssignmentStore { return &AssignmentStore{db} }
func (db *DB) QuestionStore() store.QuestionStore { return &QuestionStore{db} }
func (db *DB) ReviewStore() store.ReviewStore { return &ReviewStore{db} }
func (db *DB) RatingStore() store.RatingStore { return &RatingStore{db} }
func (db *DB) AnalyticsStore() store.AnalyticsStore { return &AnalyticsStore{db} }
func (db *DB) JournalAssignmentStore() store.JournalAssignmentStore {
	return &JournalAssignmentStore{db}
}
func (db *DB) JournalEntryStore() store.JournalEntryStore { return &JournalEntryStore{db} }
