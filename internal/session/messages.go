package session

import (
	"fmt"

	"github.com/Makepad-fr/infosite/internal/api"
)

// User-facing status texts.
const (
	MsgLoginRejected = "Sorry, credentials were incorrect, please attempt login again."
	MsgSaveRejected  = "Sorry, you had been logged out when you tried to save the welcome message. Please log in again."
	MsgUnavailable   = "Sorry, we aren't able to process your request at this time."
)

func unknownMessage(err error) string {
	return fmt.Sprintf("Sorry, there was an unknown error (%s).", api.CodeOf(err))
}

func loginFailureMessage(err error) string {
	switch api.KindOf(err) {
	case api.KindBadRequest:
		return MsgLoginRejected
	case api.KindNetworkUnreachable:
		return MsgUnavailable
	}
	return unknownMessage(err)
}

func saveFailureMessage(err error) string {
	switch api.KindOf(err) {
	case api.KindBadRequest:
		return MsgSaveRejected
	case api.KindNetworkUnreachable:
		return MsgUnavailable
	}
	return unknownMessage(err)
}

func reloadFailureMessage(err error) string {
	if api.KindOf(err) == api.KindNetworkUnreachable {
		return MsgUnavailable
	}
	return unknownMessage(err)
}
