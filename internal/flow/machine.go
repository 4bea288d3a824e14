// Package flow models the five-screen client journey as an explicit state
// machine: login -> location permission -> location search -> report, with
// register as a sibling of login. Transitions are pure functions of
// (state, event); the auth session and the persisted flow slots only feed
// events and the resume computation, they never mutate screen state
// directly.
package flow

import "github.com/roadwatch/road-report-service/internal/draft"

// State is a screen in the client flow.
type State string

const (
	StateLogin              State = "login"
	StateRegister           State = "register"
	StateLocationPermission State = "locationPermission"
	StateLocationSearch     State = "locationSearch"
	StateReport             State = "report"
)

// Event is an external occurrence that can advance the flow. Auth
// state-change notifications map onto LoggedIn/SignedOut.
type Event string

const (
	EventSwitchToRegister  Event = "switch_to_register"
	EventSwitchToLogin     Event = "switch_to_login"
	EventRegistered        Event = "registered"
	EventLoggedIn          Event = "logged_in"
	EventSignedOut         Event = "signed_out"
	EventLocationGranted   Event = "location_granted"
	EventLocationDenied    Event = "location_denied"
	EventLocationConfirmed Event = "location_confirmed"
	EventEditLocation      Event = "edit_location"
)

// Next returns the state that follows cur when ev occurs. Events that do
// not apply to the current state leave it unchanged, which is what keeps a
// late or duplicate notification from yanking the user backwards.
func Next(cur State, ev Event) State {
	switch ev {
	case EventSignedOut:
		return StateLogin
	case EventSwitchToRegister:
		if cur == StateLogin {
			return StateRegister
		}
	case EventSwitchToLogin, EventRegistered:
		if cur == StateRegister {
			return StateLogin
		}
	case EventLoggedIn:
		if cur == StateLogin || cur == StateRegister {
			return StateLocationPermission
		}
	case EventLocationGranted:
		if cur == StateLocationPermission {
			return StateLocationSearch
		}
	case EventLocationDenied:
		// Denial keeps the user on the permission screen where a manual
		// pincode entry is offered.
		if cur == StateLocationPermission {
			return StateLocationPermission
		}
	case EventLocationConfirmed:
		if cur == StateLocationSearch {
			return StateReport
		}
	case EventEditLocation:
		if cur == StateReport {
			return StateLocationSearch
		}
	}
	return cur
}

// Resume computes the most advanced screen a returning session can land
// on from the persisted flow slots: a confirmed location goes straight to
// the report screen, a granted permission without a selection resumes at
// search, a bare session resumes at the permission screen.
func Resume(loggedIn bool, f draft.FlowState) State {
	if !loggedIn {
		return StateLogin
	}
	if f.LocationGranted && f.Selected != nil && f.Selected.Location != "" {
		return StateReport
	}
	if f.LocationGranted {
		return StateLocationSearch
	}
	return StateLocationPermission
}
