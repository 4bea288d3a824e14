package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadwatch/road-report-service/internal/draft"
	"github.com/roadwatch/road-report-service/internal/model"
)

func TestNext_Transitions(t *testing.T) {
	cases := []struct {
		name string
		cur  State
		ev   Event
		want State
	}{
		{"login to register", StateLogin, EventSwitchToRegister, StateRegister},
		{"register back to login", StateRegister, EventSwitchToLogin, StateLogin},
		{"registration lands on login", StateRegister, EventRegistered, StateLogin},
		{"login advances to permission", StateLogin, EventLoggedIn, StateLocationPermission},
		{"register advances to permission", StateRegister, EventLoggedIn, StateLocationPermission},
		{"permission granted", StateLocationPermission, EventLocationGranted, StateLocationSearch},
		{"permission denied stays put", StateLocationPermission, EventLocationDenied, StateLocationPermission},
		{"confirmed location reaches report", StateLocationSearch, EventLocationConfirmed, StateReport},
		{"edit location returns to search", StateReport, EventEditLocation, StateLocationSearch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Next(tc.cur, tc.ev))
		})
	}
}

func TestNext_SignOutFromAnywhere(t *testing.T) {
	for _, cur := range []State{StateLogin, StateRegister, StateLocationPermission, StateLocationSearch, StateReport} {
		assert.Equal(t, StateLogin, Next(cur, EventSignedOut), string(cur))
	}
}

// A late or duplicate event must never yank the user backwards.
func TestNext_NonApplicableEventsAreNoOps(t *testing.T) {
	cases := []struct {
		cur State
		ev  Event
	}{
		{StateReport, EventLoggedIn},
		{StateReport, EventLocationGranted},
		{StateLocationSearch, EventLoggedIn},
		{StateLocationSearch, EventEditLocation},
		{StateLogin, EventLocationConfirmed},
		{StateLocationPermission, EventSwitchToRegister},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.cur, Next(tc.cur, tc.ev), "%s + %s", tc.cur, tc.ev)
	}
}

func TestResume(t *testing.T) {
	selected := &model.SelectedLocation{Location: "MG Road, Bengaluru", Pincode: "560001"}

	assert.Equal(t, StateLogin, Resume(false, draft.FlowState{LocationGranted: true, Selected: selected}))
	assert.Equal(t, StateLocationPermission, Resume(true, draft.FlowState{}))
	assert.Equal(t, StateLocationSearch, Resume(true, draft.FlowState{LocationGranted: true}))
	assert.Equal(t, StateReport, Resume(true, draft.FlowState{LocationGranted: true, Selected: selected}))

	// A selection with an empty location does not count as confirmed.
	empty := &model.SelectedLocation{}
	assert.Equal(t, StateLocationSearch, Resume(true, draft.FlowState{LocationGranted: true, Selected: empty}))
}
