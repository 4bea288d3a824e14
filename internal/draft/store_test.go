package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/road-report-service/internal/model"
)

// memKV is an in-memory KV used to exercise the stores without Redis.
type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemKV() *memKV { return &memKV{m: make(map[string]string)} }

func (k *memKV) Get(_ context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (k *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *memKV) Del(_ context.Context, keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range keys {
		delete(k.m, key)
	}
	return nil
}

func TestDraftSlot_RoundTrip(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	_, ok, err := s.LoadDraft(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "fresh user has no draft")

	d := model.DraftReport{
		FileNames:     []string{"pothole.jpg"},
		Vote:          model.VotePoor,
		Location:      "MG Road, Bengaluru",
		ReportPincode: "560001",
	}
	require.NoError(t, s.SaveDraft(ctx, "u1", d))

	got, ok, err := s.LoadDraft(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.FileNames, got.FileNames)
	assert.Equal(t, d.Vote, got.Vote)
	assert.Equal(t, d.Location, got.Location)
	assert.False(t, got.SavedAt.IsZero(), "SavedAt is stamped on save")
}

// The slot holds exactly one draft: a second save replaces the first.
func TestDraftSlot_SingleSlotOverwrite(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "u1", model.DraftReport{Vote: model.VoteGood}))
	require.NoError(t, s.SaveDraft(ctx, "u1", model.DraftReport{Vote: model.VoteVeryPoor}))

	got, ok, err := s.LoadDraft(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.VoteVeryPoor, got.Vote)
}

func TestDraftSlot_Clear(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "u1", model.DraftReport{Vote: model.VoteFair}))
	require.NoError(t, s.ClearDraft(ctx, "u1"))

	_, ok, err := s.LoadDraft(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftSlot_IsolatedPerUser(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "u1", model.DraftReport{Vote: model.VotePoor}))

	_, ok, err := s.LoadDraft(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok, "another user's slot stays empty")
}

func TestFlowState_RoundTrip(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	f := FlowState{
		LocationGranted: true,
		UserPincode:     "560038",
		Selected:        &model.SelectedLocation{Location: "Indiranagar", Pincode: "560038"},
	}
	require.NoError(t, s.SaveFlow(ctx, "u1", f))

	got, ok, err := s.LoadFlow(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.LocationGranted)
	assert.Equal(t, "560038", got.UserPincode)
	require.NotNil(t, got.Selected)
	assert.Equal(t, "Indiranagar", got.Selected.Location)

	require.NoError(t, s.ClearFlow(ctx, "u1"))
	_, ok, err = s.LoadFlow(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_RoundTrip(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	answers := map[string]model.Answer{
		"q1": {Kind: model.AnswerSingle, Value: "Daily"},
		"q3": {Kind: model.AnswerMulti, Values: []string{"Potholes", "Cracks"}},
	}
	require.NoError(t, s.SaveAnswers(ctx, "r1", answers, "gets worse when it rains"))

	gotAnswers, comments, ok, err := s.LoadAnswers(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, answers, gotAnswers)
	assert.Equal(t, "gets worse when it rains", comments)

	require.NoError(t, s.ClearAnswers(ctx, "r1"))
	_, _, ok, err = s.LoadAnswers(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}
