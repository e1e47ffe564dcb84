// Package roundholderr defines the RPC-facing error taxonomy from the
// Roundhold wire contract. Handlers translate these sentinels into
// structured {success:false, error:<code>} responses; they are never
// used to crash a handler.
package roundholderr

import "errors"

var (
	ErrWrongPhase       = errors.New("WrongPhase")
	ErrInsufficientGold = errors.New("InsufficientGold")
	ErrCellOccupied     = errors.New("CellOccupied")
	ErrNotBuildable     = errors.New("NotBuildable")
	ErrUnknownType      = errors.New("UnknownType")
	ErrInvalidRoute     = errors.New("InvalidRoute")
	ErrNotInMatch       = errors.New("NotInMatch")
	ErrInternal         = errors.New("InternalError")
)

// Code returns the wire error code for a known sentinel, falling back to
// InternalError for anything else. Handlers must never leak raw Go
// error strings to clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrWrongPhase):
		return "WrongPhase"
	case errors.Is(err, ErrInsufficientGold):
		return "InsufficientGold"
	case errors.Is(err, ErrCellOccupied):
		return "CellOccupied"
	case errors.Is(err, ErrNotBuildable):
		return "NotBuildable"
	case errors.Is(err, ErrUnknownType):
		return "UnknownType"
	case errors.Is(err, ErrInvalidRoute):
		return "InvalidRoute"
	case errors.Is(err, ErrNotInMatch):
		return "NotInMatch"
	default:
		return "InternalError"
	}
}
