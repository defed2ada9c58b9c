package models

import (
	"errors"
	"fmt"
)

// RSVPViewState is the state of the guest-facing RSVP page.
type RSVPViewState string

const (
	RSVPStateLoading RSVPViewState = "loading"
	RSVPStateLookup  RSVPViewState = "lookup"
	RSVPStateForm    RSVPViewState = "form"
	RSVPStateSuccess RSVPViewState = "success"
	RSVPStateError   RSVPViewState = "error"
)

// RSVPEvent drives RSVPViewState transitions.
type RSVPEvent string

const (
	RSVPEventTokenValid   RSVPEvent = "token_valid"
	RSVPEventTokenInvalid RSVPEvent = "token_invalid"
	RSVPEventNameFound    RSVPEvent = "name_found"
	RSVPEventSubmitOK     RSVPEvent = "submit_ok"
	RSVPEventUnexpected   RSVPEvent = "unexpected"
)

var ErrInvalidTransition = errors.New("invalid rsvp state transition")

var rsvpTransitions = map[RSVPViewState]map[RSVPEvent]RSVPViewState{
	RSVPStateLoading: {
		RSVPEventTokenValid:   RSVPStateForm,
		RSVPEventTokenInvalid: RSVPStateLookup,
	},
	RSVPStateLookup: {
		RSVPEventNameFound: RSVPStateForm,
	},
	RSVPStateForm: {
		RSVPEventSubmitOK: RSVPStateSuccess,
	},
}

// Transition returns the state reached from s on event e.
// Any state moves to error on an unexpected failure.
func (s RSVPViewState) Transition(e RSVPEvent) (RSVPViewState, error) {
	if e == RSVPEventUnexpected {
		return RSVPStateError, nil
	}
	if next, ok := rsvpTransitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, e)
}

// Terminal reports whether no further transition (other than error) is possible.
func (s RSVPViewState) Terminal() bool {
	return s == RSVPStateSuccess || s == RSVPStateError
}
