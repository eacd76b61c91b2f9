package domain

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind classifies a core failure. The value is carried as the oops code.
type Kind string

const (
	KindUserExists           Kind = "USER_EXISTS"
	KindInvalidCredentials   Kind = "INVALID_CREDENTIALS"
	KindStorage              Kind = "STORAGE_ERROR"
	KindInvalidToken         Kind = "INVALID_TOKEN"
	KindMalformedCredential  Kind = "MALFORMED_CREDENTIAL"
	KindOrganisationNotFound Kind = "ORGANISATION_NOT_FOUND"
	KindNotOwner             Kind = "NOT_OWNER"
	KindInvalidRequest       Kind = "INVALID_REQUEST"
)

// User-facing messages.
const (
	MsgUserExists           = "User exists"
	MsgEmailIncorrect       = "Email entered is incorrect"
	MsgPasswordIncorrect    = "Password entered is incorrect"
	MsgInvalidToken         = "Invalid or expired token"
	MsgUnknownUser          = "Could not fetch User ID"
	MsgOrganisationNotFound = "This organisation does not exist"
	MsgNotOwner             = "You are not the owner"
	MsgInviteForbidden      = "You are forbidden to invite other members"
)

// Storage failure messages, one per operation that touches the store.
const (
	MsgStorageCheckEmail         = "Caught an error while checking whether the email is registered"
	MsgStorageHashPassword       = "Caught an error while hashing the password"
	MsgStorageRegister           = "Caught an error while registering user"
	MsgStorageFetchUser          = "Caught an error while getting user from the database"
	MsgStorageVerifyPassword     = "Caught an error while verifying the password"
	MsgStorageSignToken          = "Caught an error while signing the token"
	MsgStorageCreateOrganisation = "Caught an error while creating the organisation"
	MsgStorageListOrganisations  = "Caught an error while listing organisations"
	MsgStorageFetchOrganisation  = "Caught an error while getting organisation from the database"
	MsgStorageUpdateOrganisation = "Caught an error while updating the organisation"
)

// Errorf builds a coded error whose public message is the formatted text.
func Errorf(kind Kind, format string, args ...any) error {
	return oops.Code(string(kind)).Public(fmt.Sprintf(format, args...)).Errorf(format, args...)
}

// Wrap attaches kind and a public message to a lower-level error.
func Wrap(kind Kind, msg string, err error) error {
	return oops.Code(string(kind)).Public(msg).Wrap(err)
}

// StorageError wraps a store or driver failure with a message naming the
// operation that failed.
func StorageError(msg string, err error) error {
	return Wrap(KindStorage, msg, err)
}

// KindOf classifies err. Errors that carry no known code classify as
// KindStorage so callers fail closed.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() == nil {
		return KindStorage
	}
	switch k := Kind(fmt.Sprint(oopsErr.Code())); k {
	case KindUserExists, KindInvalidCredentials, KindStorage, KindInvalidToken,
		KindMalformedCredential, KindOrganisationNotFound, KindNotOwner, KindInvalidRequest:
		return k
	default:
		return KindStorage
	}
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the human-readable message for err, verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if msg := oopsErr.Public(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
