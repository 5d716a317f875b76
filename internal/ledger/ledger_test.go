package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/dbmysql"
)

// memStore is an in-memory Store. Transactions snapshot state and restore it on error.
type memStore struct {
	counts    map[int64]common.ReactionCounts
	reactions map[int64]dbmysql.Reaction
	nextID    int64

	// failInsert simulates the unique index firing after the pre-check passed.
	failInsert error
}

func newMemStore(thanksIDs ...int64) *memStore {
	s := &memStore{counts: map[int64]common.ReactionCounts{}, reactions: map[int64]dbmysql.Reaction{}}
	for _, id := range thanksIDs {
		s.counts[id] = common.NewReactionCounts()
	}
	return s
}

func (s *memStore) snapshot() (map[int64]common.ReactionCounts, map[int64]dbmysql.Reaction, int64) {
	counts := make(map[int64]common.ReactionCounts, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v.Clone()
	}
	reactions := make(map[int64]dbmysql.Reaction, len(s.reactions))
	for k, v := range s.reactions {
		reactions[k] = v
	}
	return counts, reactions, s.nextID
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	counts, reactions, nextID := s.snapshot()
	if err := fn(s); err != nil {
		s.counts, s.reactions, s.nextID = counts, reactions, nextID
		return err
	}
	return nil
}

func (s *memStore) LockCounts(_ context.Context, thanksID int64) (common.ReactionCounts, error) {
	c, ok := s.counts[thanksID]
	if !ok {
		return nil, common.NotFound("thanks not found")
	}
	return c.Clone(), nil
}

func (s *memStore) SaveCounts(_ context.Context, thanksID int64, counts common.ReactionCounts) error {
	s.counts[thanksID] = counts.Clone()
	return nil
}

func (s *memStore) ReactionExists(_ context.Context, reactionerID, thanksID int64) (bool, error) {
	for _, r := range s.reactions {
		if r.ReactionerID == reactionerID && r.ThanksID == thanksID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) FindReaction(_ context.Context, reactionID, reactionerID int64) (*dbmysql.Reaction, error) {
	r, ok := s.reactions[reactionID]
	if !ok || r.ReactionerID != reactionerID {
		return nil, common.NotFound("reaction not found")
	}
	return &r, nil
}

func (s *memStore) InsertReaction(ctx context.Context, reaction *dbmysql.Reaction) error {
	if s.failInsert != nil {
		return s.failInsert
	}
	if exists, _ := s.ReactionExists(ctx, reaction.ReactionerID, reaction.ThanksID); exists {
		return common.Conflict("duplicate reaction")
	}
	s.nextID++
	reaction.ID = s.nextID
	s.reactions[reaction.ID] = *reaction
	return nil
}

func (s *memStore) UpdateReactionType(_ context.Context, reactionID int64, from, to common.ReactionType) (bool, error) {
	r, ok := s.reactions[reactionID]
	if !ok || r.Type != from {
		return false, nil
	}
	r.Type = to
	s.reactions[reactionID] = r
	return true, nil
}

func (s *memStore) DeleteReaction(_ context.Context, reactionID int64, kind common.ReactionType) (bool, error) {
	r, ok := s.reactions[reactionID]
	if !ok || r.Type != kind {
		return false, nil
	}
	delete(s.reactions, reactionID)
	return true, nil
}

// assertConsistent checks counter == number of rows per kind, and no negatives.
func assertConsistent(t *testing.T, s *memStore) {
	t.Helper()
	for thanksID, counts := range s.counts {
		actual := common.NewReactionCounts()
		for _, r := range s.reactions {
			if r.ThanksID == thanksID {
				actual[r.Type]++
			}
		}
		for _, kind := range common.ReactionTypes {
			require.GreaterOrEqual(t, counts[kind], 0, "thanks %d %s negative", thanksID, kind)
			require.Equal(t, actual[kind], counts[kind], "thanks %d %s drifted", thanksID, kind)
		}
	}
}

func newLedger(s *memStore) *Ledger {
	return New(s, zap.NewNop())
}

func TestLedger_Create(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, 1, store.counts[1][common.ReactionHeart])
	assertConsistent(t, store)

	// second create by the same user conflicts and leaves the counter alone
	_, err = l.Create(ctx, 10, 1, common.ReactionClap)
	require.Error(t, err)
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	assert.Equal(t, 0, store.counts[1][common.ReactionClap])
	assertConsistent(t, store)
}

func TestLedger_CreateMissingThanks(t *testing.T) {
	store := newMemStore()
	l := newLedger(store)

	_, err := l.Create(context.Background(), 10, 404, common.ReactionHeart)
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
	assert.Empty(t, store.reactions)
}

func TestLedger_CreateRaceRollsBackCounter(t *testing.T) {
	store := newMemStore(1)
	store.failInsert = common.Conflict("duplicate reaction")
	l := newLedger(store)

	_, err := l.Create(context.Background(), 10, 1, common.ReactionHeart)
	require.Error(t, err)
	assert.Equal(t, common.KindConflict, common.KindOf(err))
	assert.Equal(t, 0, store.counts[1][common.ReactionHeart], "increment must roll back with the insert")
}

func TestLedger_CreateStoreFailureIsInternal(t *testing.T) {
	store := newMemStore(1)
	store.failInsert = errors.New("connection reset")
	l := newLedger(store)

	_, err := l.Create(context.Background(), 10, 1, common.ReactionHeart)
	require.Error(t, err)
	assert.Equal(t, common.KindInternal, common.KindOf(err))
	assertConsistent(t, store)
}

func TestLedger_CreateRejectsUnknownKind(t *testing.T) {
	l := newLedger(newMemStore(1))
	_, err := l.Create(context.Background(), 10, 1, common.ReactionType("meh"))
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))
}

func TestLedger_DeleteSoleReactionThenAgain(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)
	require.Equal(t, 1, store.counts[1][common.ReactionHeart])
	require.Equal(t, 0, store.counts[1][common.ReactionClap])

	_, err = l.Remove(ctx, 10, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.counts[1][common.ReactionHeart])
	assert.Equal(t, 0, store.counts[1][common.ReactionClap])

	_, err = l.Remove(ctx, 10, r.ID)
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
	assert.Equal(t, 0, store.counts[1][common.ReactionHeart], "never below zero")
}

func TestLedger_RemoveOthersReaction(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)

	_, err = l.Remove(ctx, 11, r.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
	assert.Equal(t, 1, store.counts[1][common.ReactionHeart])
}

func TestLedger_ChangeSameKindRemoves(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)

	_, outcome, err := l.Change(ctx, 10, r.ID, common.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)
	assert.Equal(t, 0, store.counts[1][common.ReactionHeart])
	exists, _ := store.ReactionExists(ctx, 10, 1)
	assert.False(t, exists)
	assertConsistent(t, store)
}

func TestLedger_ChangeKind(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)

	updated, outcome, err := l.Change(ctx, 10, r.ID, common.ReactionParty)
	require.NoError(t, err)
	assert.Equal(t, Changed, outcome)
	assert.Equal(t, common.ReactionParty, updated.Type)
	assert.Equal(t, 0, store.counts[1][common.ReactionHeart])
	assert.Equal(t, 1, store.counts[1][common.ReactionParty])
	assertConsistent(t, store)
}

func TestLedger_ChangeAbortsOnDriftedCounter(t *testing.T) {
	store := newMemStore(1)
	l := newLedger(store)
	ctx := context.Background()

	r, err := l.Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)
	store.counts[1][common.ReactionHeart] = 0 // drift

	_, _, err = l.Change(ctx, 10, r.ID, common.ReactionClap)
	require.Error(t, err)
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))
	assert.Equal(t, 0, store.counts[1][common.ReactionClap], "no partial effect")
	assert.Equal(t, common.ReactionHeart, store.reactions[r.ID].Type)

	_, err = l.Remove(ctx, 10, r.ID)
	require.Error(t, err)
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))
	assert.Contains(t, store.reactions, r.ID)
}

// staleStore serves a reaction snapshot taken before a concurrent change.
type staleStore struct {
	*memStore
	stale dbmysql.Reaction
}

func (s *staleStore) FindReaction(_ context.Context, _, _ int64) (*dbmysql.Reaction, error) {
	r := s.stale
	return &r, nil
}

func TestLedger_ChangeLostRaceRollsBack(t *testing.T) {
	store := newMemStore(1)
	ctx := context.Background()

	r, err := newLedger(store).Create(ctx, 10, 1, common.ReactionHeart)
	require.NoError(t, err)
	stale := store.reactions[r.ID]

	// another request already moved the row from heart to smile
	row := store.reactions[r.ID]
	row.Type = common.ReactionSmile
	store.reactions[r.ID] = row
	store.counts[1] = common.NewReactionCounts()
	store.counts[1][common.ReactionSmile] = 1
	// and someone else hearted, so the stale decrement would not underflow
	store.counts[1][common.ReactionHeart] = 1
	store.reactions[99] = dbmysql.Reaction{ID: 99, Type: common.ReactionHeart, ReactionerID: 11, ThanksID: 1}
	before := store.counts[1].Clone()

	l := New(&staleStore{memStore: store, stale: stale}, zap.NewNop())
	_, _, err = l.Change(ctx, 10, r.ID, common.ReactionClap)
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
	assert.Equal(t, before, store.counts[1], "counter write rolled back with the missed update")
	assertConsistent(t, store)

	_, err = l.Remove(ctx, 10, r.ID)
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
	assert.Equal(t, before, store.counts[1])
}

// Random sequences of operations never break the counter invariant.
func TestLedger_RandomSequencesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for trial := 0; trial < 30; trial++ {
		store := newMemStore(1, 2, 3)
		l := newLedger(store)

		for step := 0; step < 200; step++ {
			user := int64(1 + rng.Intn(5))
			thanks := int64(1 + rng.Intn(4)) // 4 does not exist
			kind := common.ReactionTypes[rng.Intn(len(common.ReactionTypes))]

			switch rng.Intn(3) {
			case 0:
				_, _ = l.Create(ctx, user, thanks, kind)
			case 1:
				if id := anyReactionOf(store, user); id != 0 {
					_, _, _ = l.Change(ctx, user, id, kind)
				}
			case 2:
				if id := anyReactionOf(store, user); id != 0 {
					_, _ = l.Remove(ctx, user, id)
				}
			}
			assertConsistent(t, store)
		}

		// at most one reaction per (user, thanks)
		seen := map[[2]int64]bool{}
		for _, r := range store.reactions {
			key := [2]int64{r.ReactionerID, r.ThanksID}
			require.False(t, seen[key])
			seen[key] = true
		}
	}
}

func anyReactionOf(s *memStore, user int64) int64 {
	for id, r := range s.reactions {
		if r.ReactionerID == user {
			return id
		}
	}
	return 0
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "changed", Changed.String())
	assert.Equal(t, "removed", Removed.String())
}
