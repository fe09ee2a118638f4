// Package errs defines the error taxonomy shared by the typed data model and the storage engine
// boundary.
//
// Every error produced by this module is an *Error carrying a Kind, a stable numeric code and a
// human-readable message. Kinds in the native table mirror the status codes reported by the
// storage engine; Resolve translates such a status code into an *Error. A few kinds
// (IndexOutOfRange, ColumnNotFound, NullField) are raised only by local validation and use codes
// outside the native table.
//
// Errors compare by Kind, so a contextualized or wrapped error still matches its sentinel:
//
//	err := t.AddValueByName("missing", 0, int64(1))
//	if errors.Is(err, errs.ErrColumnNotFound) {
//	    // ...
//	}
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error independently of the raw code that produced it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindOutOfMemory
	KindNotExists
	KindAlreadyExists
	KindInvalidArgument
	KindOutOfRange
	KindPartialRead
	KindTypeNotSupported
	KindTypeMismatch
	KindFileOpen
	KindFileClose
	KindFileWrite
	KindFileRead
	KindFileSync
	KindMetadataInconsistency
	KindBufferTooSmall
	KindDeviceNotExist
	KindMeasurementNotExist
	KindInvalidQuery
	KindCompressionFailure
	KindTableNotExist
	KindIndexOutOfRange
	KindColumnNotFound
	KindNullField
)

// Status codes reported by the storage engine. CodeOK means success.
const (
	CodeOK                    = 0
	CodeUnknown               = -1
	CodeOutOfMemory           = 1
	CodeNotExists             = 2
	CodeAlreadyExists         = 3
	CodeInvalidArgument       = 4
	CodeOutOfRange            = 5
	CodePartialRead           = 6
	CodeTypeNotSupported      = 26
	CodeTypeMismatch          = 27
	CodeFileOpen              = 28
	CodeFileClose             = 29
	CodeFileWrite             = 30
	CodeFileRead              = 31
	CodeFileSync              = 32
	CodeMetadataInconsistency = 33
	CodeBufferTooSmall        = 36
	CodeDeviceNotExist        = 44
	CodeMeasurementNotExist   = 45
	CodeInvalidQuery          = 46
	CodeCompressionFailure    = 48
	CodeTableNotExist         = 49

	// Local validation codes; the engine never reports these.
	CodeIndexOutOfRange = 100
	CodeColumnNotFound  = 101
	CodeNullField       = 102
)

type kindInfo struct {
	name    string
	code    int
	message string
}

var kindTable = [...]kindInfo{
	KindUnknown:               {"Unknown", CodeUnknown, "Unknown error occurred"},
	KindOutOfMemory:           {"OutOfMemory", CodeOutOfMemory, "Out of memory"},
	KindNotExists:             {"NotExists", CodeNotExists, "Requested resource does not exist"},
	KindAlreadyExists:         {"AlreadyExists", CodeAlreadyExists, "Resource already exists"},
	KindInvalidArgument:       {"InvalidArgument", CodeInvalidArgument, "Invalid argument provided"},
	KindOutOfRange:            {"OutOfRange", CodeOutOfRange, "Value out of valid range"},
	KindPartialRead:           {"PartialRead", CodePartialRead, "Incomplete data read operation"},
	KindTypeNotSupported:      {"TypeNotSupported", CodeTypeNotSupported, "Unsupported data type"},
	KindTypeMismatch:          {"TypeMismatch", CodeTypeMismatch, "Data type mismatch"},
	KindFileOpen:              {"FileOpen", CodeFileOpen, "Failed to open file"},
	KindFileClose:             {"FileClose", CodeFileClose, "Failed to close file"},
	KindFileWrite:             {"FileWrite", CodeFileWrite, "Failed to write to file"},
	KindFileRead:              {"FileRead", CodeFileRead, "Failed to read from file"},
	KindFileSync:              {"FileSync", CodeFileSync, "Failed to sync file contents"},
	KindMetadataInconsistency: {"MetadataInconsistency", CodeMetadataInconsistency, "Metadata inconsistency detected"},
	KindBufferTooSmall:        {"BufferTooSmall", CodeBufferTooSmall, "Insufficient buffer space"},
	KindDeviceNotExist:        {"DeviceNotExist", CodeDeviceNotExist, "Requested device does not exist"},
	KindMeasurementNotExist:   {"MeasurementNotExist", CodeMeasurementNotExist, "Specified measurement does not exist"},
	KindInvalidQuery:          {"InvalidQuery", CodeInvalidQuery, "Malformed query syntax"},
	KindCompressionFailure:    {"CompressionFailure", CodeCompressionFailure, "Data compression/decompression failed"},
	KindTableNotExist:         {"TableNotExist", CodeTableNotExist, "Requested table does not exist"},
	KindIndexOutOfRange:       {"IndexOutOfRange", CodeIndexOutOfRange, "Index out of range"},
	KindColumnNotFound:        {"ColumnNotFound", CodeColumnNotFound, "Illegal column name"},
	KindNullField:             {"NullField", CodeNullField, "Null field"},
}

// nativeKinds maps engine status codes to kinds. Built once, read-only afterwards.
var nativeKinds = map[int]Kind{
	CodeOutOfMemory:           KindOutOfMemory,
	CodeNotExists:             KindNotExists,
	CodeAlreadyExists:         KindAlreadyExists,
	CodeInvalidArgument:       KindInvalidArgument,
	CodeOutOfRange:            KindOutOfRange,
	CodePartialRead:           KindPartialRead,
	CodeTypeNotSupported:      KindTypeNotSupported,
	CodeTypeMismatch:          KindTypeMismatch,
	CodeFileOpen:              KindFileOpen,
	CodeFileClose:             KindFileClose,
	CodeFileWrite:             KindFileWrite,
	CodeFileRead:              KindFileRead,
	CodeFileSync:              KindFileSync,
	CodeMetadataInconsistency: KindMetadataInconsistency,
	CodeBufferTooSmall:        KindBufferTooSmall,
	CodeDeviceNotExist:        KindDeviceNotExist,
	CodeMeasurementNotExist:   KindMeasurementNotExist,
	CodeInvalidQuery:          KindInvalidQuery,
	CodeCompressionFailure:    KindCompressionFailure,
	CodeTableNotExist:         KindTableNotExist,
}

func (k Kind) info() kindInfo {
	if int(k) < len(kindTable) {
		return kindTable[k]
	}

	return kindTable[KindUnknown]
}

// String returns the kind name.
func (k Kind) String() string {
	return k.info().name
}

// Code returns the default status code of the kind.
func (k Kind) Code() int {
	return k.info().code
}

// DefaultMessage returns the message used when no context is supplied.
func (k Kind) DefaultMessage() string {
	return k.info().message
}

// Error is the single error shape of the module.
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// New creates an error of the given kind with its default code.
// An empty message falls back to the kind's default message.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = kind.DefaultMessage()
	}

	return &Error{Kind: kind, Code: kind.Code(), Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Resolve translates an engine status code into an error.
//
// Parameters:
//   - code: status code reported by the engine
//   - context: message describing the failed call; empty selects the kind's default message
//
// Returns:
//   - error: nil for CodeOK, an *Error of the mapped kind otherwise. Unmapped codes yield a
//     KindUnknown error that still carries the raw code.
func Resolve(code int, context string) error {
	if code == CodeOK {
		return nil
	}

	kind, ok := nativeKinds[code]
	if !ok {
		if context == "" {
			context = fmt.Sprintf("Unmapped error code: %d", code)
		}

		return &Error{Kind: KindUnknown, Code: code, Message: context}
	}

	if context == "" {
		context = kind.DefaultMessage()
	}

	return &Error{Kind: kind, Code: code, Message: context}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// CodeOf returns the status code for err: CodeOK for nil, the carried code for an *Error and
// CodeUnknown for foreign errors.
func CodeOf(err error) int {
	if err == nil {
		return CodeOK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CodeUnknown
}

// Sentinel errors, one per kind. Compare with errors.Is.
var (
	ErrUnknown               = New(KindUnknown, "")
	ErrOutOfMemory           = New(KindOutOfMemory, "")
	ErrNotExists             = New(KindNotExists, "")
	ErrAlreadyExists         = New(KindAlreadyExists, "")
	ErrInvalidArgument       = New(KindInvalidArgument, "")
	ErrOutOfRange            = New(KindOutOfRange, "")
	ErrPartialRead           = New(KindPartialRead, "")
	ErrTypeNotSupported      = New(KindTypeNotSupported, "")
	ErrTypeMismatch          = New(KindTypeMismatch, "")
	ErrFileOpen              = New(KindFileOpen, "")
	ErrFileClose             = New(KindFileClose, "")
	ErrFileWrite             = New(KindFileWrite, "")
	ErrFileRead              = New(KindFileRead, "")
	ErrFileSync              = New(KindFileSync, "")
	ErrMetadataInconsistency = New(KindMetadataInconsistency, "")
	ErrBufferTooSmall        = New(KindBufferTooSmall, "")
	ErrDeviceNotExist        = New(KindDeviceNotExist, "")
	ErrMeasurementNotExist   = New(KindMeasurementNotExist, "")
	ErrInvalidQuery          = New(KindInvalidQuery, "")
	ErrCompressionFailure    = New(KindCompressionFailure, "")
	ErrTableNotExist         = New(KindTableNotExist, "")
	ErrIndexOutOfRange       = New(KindIndexOutOfRange, "")
	ErrColumnNotFound        = New(KindColumnNotFound, "")
	ErrNullField             = New(KindNullField, "")
)
