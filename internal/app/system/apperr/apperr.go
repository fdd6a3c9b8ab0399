// Package apperr defines the error taxonomy shared by stores, features and
// the HTTP boundary.
//
// Stores and features return *Error values; the HTTP layer maps each Kind to
// exactly one status code and a {"error": "..."} body. Anything that is not
// an *Error is treated as unhandled (500) and its text never reaches clients.
package apperr

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindStoreSchema
	KindMalformedID
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindStoreSchema:
		return "store_schema"
	case KindMalformedID:
		return "malformed_id"
	default:
		return "unhandled"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindStoreSchema, KindMalformedID:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error. Msg is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Client-facing messages for the kinds whose text is fixed.
const (
	MsgMalformedID = "Invalid ID format"
	MsgStoreSchema = "Validation error"
	MsgUnhandled   = "Something went wrong"
)

func Validation(msg string) error    { return &Error{Kind: KindValidation, Msg: msg} }
func Authorization(msg string) error { return &Error{Kind: KindAuthorization, Msg: msg} }
func NotFound(msg string) error      { return &Error{Kind: KindNotFound, Msg: msg} }

// StoreSchema wraps a write rejected by the collection's validator.
func StoreSchema(err error) error {
	return &Error{Kind: KindStoreSchema, Msg: MsgStoreSchema, Err: err}
}

// MalformedID wraps an identifier that is not a valid ObjectID.
func MalformedID(err error) error {
	return &Error{Kind: KindMalformedID, Msg: MsgMalformedID, Err: err}
}

// KindOf returns the Kind of err, or KindUnhandled for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnhandled
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindUnhandled {
		return ae.Msg
	}
	return MsgUnhandled
}

// ParseID converts a hex string into an ObjectID, returning a MalformedID
// error when it is not one.
func ParseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, MalformedID(err)
	}
	return oid, nil
}

// documentValidationFailure is the server code for a $jsonSchema rejection.
const documentValidationFailure = 121

// FromWrite classifies an error returned by a write. Validator rejections
// become StoreSchema errors; everything else passes through unchanged.
func FromWrite(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(documentValidationFailure) {
		return StoreSchema(err)
	}
	return err
}
