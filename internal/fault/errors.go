package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure while loading an image from a directory.
// The order is part of the fault ordinal table and must not change.
type Kind uint8

// Load error kinds.
const (
	DirOpen Kind = iota
	DirNotFound
	DirNotADir
	DirList
	DirListReset
	DirIter
	FileOpen
	ImageIo
	ImageType
	ImageRead
	ImageParse

	numKinds
)

var kindNames = [numKinds]string{
	DirOpen:      "DirOpen",
	DirNotFound:  "DirNotFound",
	DirNotADir:   "DirNotADir",
	DirList:      "DirList",
	DirListReset: "DirListReset",
	DirIter:      "DirIter",
	FileOpen:     "FileOpen",
	ImageIo:      "ImageIo",
	ImageType:    "ImageType",
	ImageRead:    "ImageRead",
	ImageParse:   "ImageParse",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// LoadError is a failed directory or image operation.
type LoadError struct {
	Kind  Kind
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a new load error
func NewLoadError(kind Kind, path string, cause error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Cause: cause}
}

// Code is the flat, stable fault ordinal shown on the LEDs.
type Code uint8

// Fault ordinals. Never renumber: the LED patterns are documented per value.
const (
	CodeNone        Code = 0
	CodeReserved    Code = 1
	CodeByte        Code = 2
	CodeWake        Code = 3
	CodeInvalidPins Code = 4
	CodeInvalidRoot Code = 5

	badgeBase      Code = 6
	backgroundBase Code = badgeBase + Code(numKinds)

	// NumCodes is the size of the ordinal table, reserved tail included.
	NumCodes = 34
)

// BadgeCode returns the ordinal for a badge directory failure of kind k.
func BadgeCode(k Kind) Code { return badgeBase + Code(k) }

// BackgroundCode returns the ordinal for a background directory failure of kind k.
func BackgroundCode(k Kind) Code { return backgroundBase + Code(k) }

func (c Code) String() string {
	switch {
	case c == CodeNone:
		return "None"
	case c == CodeByte:
		return "Byte"
	case c == CodeWake:
		return "Wake"
	case c == CodeInvalidPins:
		return "InvalidPins"
	case c == CodeInvalidRoot:
		return "InvalidRoot"
	case c >= badgeBase && c < backgroundBase:
		return "Badge/" + Kind(c-badgeBase).String()
	case c >= backgroundBase && c < backgroundBase+Code(numKinds):
		return "Background/" + Kind(c-backgroundBase).String()
	default:
		return "Reserved"
	}
}

// Error is a fatal fault that ends the cycle loop.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s(%d): %s: %v", e.Code, uint8(e.Code), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s(%d): %s", e.Code, uint8(e.Code), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new fault
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Badge namespaces a load failure in the badge directory.
// Errors that are not a *LoadError map to CodeReserved.
func Badge(err error) *Error {
	var le *LoadError
	if errors.As(err, &le) {
		return New(BadgeCode(le.Kind), "badge", err)
	}
	return New(CodeReserved, "badge", err)
}

// Background namespaces a load failure in the background directory.
func Background(err error) *Error {
	var le *LoadError
	if errors.As(err, &le) {
		return New(BackgroundCode(le.Kind), "background", err)
	}
	return New(CodeReserved, "background", err)
}

// CodeOf extracts the fault ordinal from err. Nil maps to CodeNone, any
// error without a *Error in its chain to CodeReserved.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeReserved
}
