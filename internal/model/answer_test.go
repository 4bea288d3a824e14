package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeAnswers builds a valid answer for every fixed question.
func completeAnswers() map[string]Answer {
	answers := make(map[string]Answer, len(Questions))
	for _, q := range Questions {
		if q.Multiple {
			answers[q.ID] = Answer{Kind: AnswerMulti, Values: []string{q.Options[0]}}
		} else {
			answers[q.ID] = Answer{Kind: AnswerSingle, Value: q.Options[0]}
		}
	}
	return answers
}

func TestValidateAnswers_Complete(t *testing.T) {
	assert.NoError(t, ValidateAnswers(completeAnswers()))
}

func TestValidateAnswers_MissingQuestion(t *testing.T) {
	answers := completeAnswers()
	delete(answers, "q2")

	err := ValidateAnswers(answers)
	assert.ErrorIs(t, err, ErrUnansweredQuestion)
}

func TestValidateAnswers_EmptyAnswer(t *testing.T) {
	answers := completeAnswers()
	answers["q1"] = Answer{Kind: AnswerSingle, Value: ""}

	err := ValidateAnswers(answers)
	assert.ErrorIs(t, err, ErrUnansweredQuestion)

	// An empty selection list on the multi-select question is just as
	// unanswered as an empty value.
	answers = completeAnswers()
	answers["q3"] = Answer{Kind: AnswerMulti, Values: nil}
	assert.ErrorIs(t, ValidateAnswers(answers), ErrUnansweredQuestion)
}

func TestValidateAnswers_WrongKind(t *testing.T) {
	// q3 is the multi-select question; a single value must be rejected.
	answers := completeAnswers()
	answers["q3"] = Answer{Kind: AnswerSingle, Value: "Potholes"}
	assert.ErrorIs(t, ValidateAnswers(answers), ErrWrongAnswerKind)

	// And a list where a single choice belongs is rejected too.
	answers = completeAnswers()
	answers["q1"] = Answer{Kind: AnswerMulti, Values: []string{"Daily"}}
	assert.ErrorIs(t, ValidateAnswers(answers), ErrWrongAnswerKind)
}

func TestValidVote(t *testing.T) {
	for _, v := range []string{VoteExcellent, VoteGood, VoteFair, VotePoor, VoteVeryPoor} {
		assert.True(t, ValidVote(v), v)
	}
	// The sentinel is system-assigned and never accepted from a user.
	assert.False(t, ValidVote(VoteNotRated))
	assert.False(t, ValidVote(""))
	assert.False(t, ValidVote("amazing"))
}

func TestEncodeAnswers(t *testing.T) {
	answers := completeAnswers()
	raw, err := EncodeAnswers(answers, "large pothole near the bus stop")
	require.NoError(t, err)

	var doc struct {
		Answers  map[string]Answer `json:"answers"`
		Comments string            `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Answers, len(Questions))
	assert.Equal(t, "large pothole near the bus stop", doc.Comments)
}
