package errors

type ErrorCode string

const (
	ErrInternal ErrorCode = "Internal"

	// ErrMalformedNumericInput is returned when a depth bound is not a number.
	ErrMalformedNumericInput ErrorCode = "MalformedNumericInput"
	// ErrMalformedBoundingBox is returned when bbox is not minLon,minLat,maxLon,maxLat.
	ErrMalformedBoundingBox ErrorCode = "MalformedBoundingBox"
)
