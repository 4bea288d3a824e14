package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AnswerKind tags the two shapes a questionnaire answer can take.
type AnswerKind string

const (
	AnswerSingle AnswerKind = "single" // one selected option
	AnswerMulti  AnswerKind = "multi"  // one or more selected options
)

// Answer is a tagged union for a single questionnaire answer. Single-choice
// questions carry Value, multi-select questions carry Values. Exactly one
// side is populated for a valid answer.
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Value  string     `json:"value,omitempty"`
	Values []string   `json:"values,omitempty"`
}

// Empty reports whether the answer carries no selection for its kind.
func (a Answer) Empty() bool {
	if a.Kind == AnswerMulti {
		return len(a.Values) == 0
	}
	return a.Value == ""
}

// Question describes one entry of the fixed questionnaire.
type Question struct {
	ID       string
	Text     string
	Options  []string
	Multiple bool // multi-select (checkbox) vs single-choice (radio)
}

// Questions is the fixed five-question road questionnaire. q3 is the only
// multi-select question.
var Questions = []Question{
	{
		ID:   "q1",
		Text: "How frequently do you use this road?",
		Options: []string{
			"Daily", "Weekly", "Monthly", "Rarely",
		},
	},
	{
		ID:   "q2",
		Text: "What type of vehicle do you use the MOST on this road?",
		Options: []string{
			"Car", "Motorcycle", "Bicycle", "Bus", "Truck", "Scooter",
			"Auto Rickshaw", "Public Transport", "Walking", "Other",
		},
	},
	{
		ID:   "q3",
		Text: "What are the issues with this road?",
		Options: []string{
			"Potholes", "Cracks", "Waterlogging", "Poor lighting",
			"Traffic congestion", "Unmarked speed bumps", "Rough surface",
			"Other",
		},
		Multiple: true,
	},
	{
		ID:   "q4",
		Text: "How long has this issue existed?",
		Options: []string{
			"Less than a month", "1-3 months", "3-6 months",
			"More than 6 months",
		},
	},
	{
		ID:   "q5",
		Text: "Has this road been repaired in the past year?",
		Options: []string{
			"Yes", "No", "Not sure",
		},
	},
}

// ErrUnansweredQuestion is returned by ValidateAnswers when any fixed
// question is missing or empty. Submission must be rejected locally before
// any network or database call is made.
var ErrUnansweredQuestion = errors.New("all questions must be answered")

// ErrWrongAnswerKind is returned when an answer's shape does not match its
// question: a list where a single choice belongs, or the reverse.
var ErrWrongAnswerKind = errors.New("answer kind does not match question")

// ValidateAnswers checks that every fixed question has an answer of the
// expected shape: a non-empty value for single-choice questions and a
// non-empty list for multi-select ones. A wrong-kind answer is also
// rejected so dynamic payloads cannot slip a list where a value belongs.
func ValidateAnswers(answers map[string]Answer) error {
	for _, q := range Questions {
		a, ok := answers[q.ID]
		if !ok || a.Empty() {
			return fmt.Errorf("%w: %s", ErrUnansweredQuestion, q.ID)
		}
		if q.Multiple && a.Kind != AnswerMulti {
			return fmt.Errorf("%w: question %s expects a multi-select answer", ErrWrongAnswerKind, q.ID)
		}
		if !q.Multiple && a.Kind != AnswerSingle {
			return fmt.Errorf("%w: question %s expects a single-choice answer", ErrWrongAnswerKind, q.ID)
		}
	}
	return nil
}

// EncodeAnswers marshals the answer map plus the optional free-text comment
// into the JSON document stored in the answers column.
func EncodeAnswers(answers map[string]Answer, comments string) ([]byte, error) {
	doc := struct {
		Answers  map[string]Answer `json:"answers"`
		Comments string            `json:"comments,omitempty"`
	}{Answers: answers, Comments: comments}
	return json.Marshal(doc)
}
