package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
)

// Error is an expected failure whose Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidArgument(msg string) error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err; anything unrecognised is internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Messages shared by several operations.
const (
	MsgHouseholdNotFound       = "Household not found"
	MsgTargetHouseholdNotFound = "Target household not found"
	MsgGuestNotFound           = "Guest not found"
	MsgNoFieldsToUpdate        = "No fields to update"
	MsgAlreadyInHousehold      = "Guest is already in this household"
	MsgUpdateDidNotPersist     = "Update did not persist; please try again."
	MsgInvalidRSVPLink         = "Invalid or expired RSVP link"
	MsgInvalidRequestBody      = "Invalid request body"
	MsgInvalidGuestID          = "Invalid guest ID"
	MsgNamesRequired           = "First name and last name are required"
	MsgNameNotFound            = "We couldn't find your name on the guest list. Please check the spelling or contact the couple."
	MsgNameAmbiguous           = "More than one guest matches that name. Please use the link from your invitation or contact the couple."
	MsgHouseholdNoEmail        = "Household has no email address"
	MsgSubjectMessageRequired  = "Subject and message are required"
)
