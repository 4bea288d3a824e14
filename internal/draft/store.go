// Package draft persists per-user client-resume state in Redis: the single
// report draft slot, the location flow progress and the questionnaire
// answer cache. Each store serializes one record per key; writing replaces
// the previous value, which is what gives the draft its single-slot
// semantics.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/roadwatch/road-report-service/internal/model"
)

const (
	draftKeyPrefix  = "draft:"
	flowKeyPrefix   = "flow:"
	answerKeyPrefix = "qsn:"
)

// FlowState records how far a user progressed through the location flow:
// whether permission was granted, the home pincode captured at that step
// and the confirmed search selection, if any. Cleared on logout.
type FlowState struct {
	LocationGranted bool                    `json:"location_granted"`
	UserPincode     string                  `json:"user_pincode"`
	Selected        *model.SelectedLocation `json:"selected,omitempty"`
}

// Store bundles the three per-user state slots over one KV backend.
type Store struct{ kv KV }

func NewStore(kv KV) *Store { return &Store{kv: kv} }

// SaveDraft writes the user's draft slot, stamping SavedAt.
func (s *Store) SaveDraft(ctx context.Context, userID string, d model.DraftReport) error {
	d.SavedAt = time.Now().UTC()
	return s.setJSON(ctx, draftKeyPrefix+userID, d)
}

// LoadDraft returns the draft slot and whether one exists.
func (s *Store) LoadDraft(ctx context.Context, userID string) (model.DraftReport, bool, error) {
	var d model.DraftReport
	ok, err := s.getJSON(ctx, draftKeyPrefix+userID, &d)
	return d, ok, err
}

// ClearDraft discards the draft slot. Called after a confirmed-path
// submission and at logout.
func (s *Store) ClearDraft(ctx context.Context, userID string) error {
	return s.kv.Del(ctx, draftKeyPrefix+userID)
}

// SaveFlow writes the user's location-flow progress.
func (s *Store) SaveFlow(ctx context.Context, userID string, f FlowState) error {
	return s.setJSON(ctx, flowKeyPrefix+userID, f)
}

// LoadFlow returns the location-flow progress and whether any was saved.
func (s *Store) LoadFlow(ctx context.Context, userID string) (FlowState, bool, error) {
	var f FlowState
	ok, err := s.getJSON(ctx, flowKeyPrefix+userID, &f)
	return f, ok, err
}

// ClearFlow discards the flow progress at logout.
func (s *Store) ClearFlow(ctx context.Context, userID string) error {
	return s.kv.Del(ctx, flowKeyPrefix+userID)
}

// answerBundle is the cached questionnaire payload for one report.
type answerBundle struct {
	Answers  map[string]model.Answer `json:"answers"`
	Comments string                  `json:"comments,omitempty"`
	SavedAt  time.Time               `json:"saved_at"`
}

// SaveAnswers caches the questionnaire answers for a report. Used on the
// unconfirmed path so the answers survive a reload before the email is
// confirmed.
func (s *Store) SaveAnswers(ctx context.Context, reportID string, answers map[string]model.Answer, comments string) error {
	b := answerBundle{Answers: answers, Comments: comments, SavedAt: time.Now().UTC()}
	return s.setJSON(ctx, answerKeyPrefix+reportID, b)
}

// LoadAnswers returns the cached answers for a report, if any.
func (s *Store) LoadAnswers(ctx context.Context, reportID string) (map[string]model.Answer, string, bool, error) {
	var b answerBundle
	ok, err := s.getJSON(ctx, answerKeyPrefix+reportID, &b)
	if !ok || err != nil {
		return nil, "", false, err
	}
	return b.Answers, b.Comments, true, nil
}

// ClearAnswers discards the cached answers once the confirmed-path
// submission succeeds.
func (s *Store) ClearAnswers(ctx context.Context, reportID string) error {
	return s.kv.Del(ctx, answerKeyPrefix+reportID)
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(raw), 0)
}

func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, err
	}
	return true, nil
}
