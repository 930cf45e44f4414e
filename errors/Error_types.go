package errors

var (
	ErrUnknown            = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument    = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound           = New(ERR_NOT_FOUND, "not found")
	ErrProcessing         = New(ERR_PROCESSING, "error processing")
	ErrConfiguration      = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled    = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError              = New(ERR_ERROR, "generic error")
	ErrTruncatedInput     = New(ERR_TRUNCATED_INPUT, "truncated input")
	ErrBadMagic           = New(ERR_BAD_MAGIC, "bad snapshot magic")
	ErrUnsupportedVersion = New(ERR_UNSUPPORTED_VERSION, "unsupported snapshot version")
	ErrScriptTooLong      = New(ERR_SCRIPT_TOO_LONG, "script too long")
	ErrPointNotOnCurve    = New(ERR_POINT_NOT_ON_CURVE, "point not on curve")
	ErrValueOverflow      = New(ERR_VALUE_OVERFLOW, "value overflow")
	ErrTrailingData       = New(ERR_TRAILING_DATA, "trailing data")
	ErrServiceError       = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageUnavailable = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageError       = New(ERR_STORAGE_ERROR, "storage error")
	ErrStorageExists      = New(ERR_STORAGE_EXISTS, "storage already exists")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewTruncatedInputError(message string, params ...interface{}) error {
	return New(ERR_TRUNCATED_INPUT, message, params...)
}
func NewBadMagicError(message string, params ...interface{}) error {
	return New(ERR_BAD_MAGIC, message, params...)
}
func NewUnsupportedVersionError(message string, params ...interface{}) error {
	return New(ERR_UNSUPPORTED_VERSION, message, params...)
}
func NewScriptTooLongError(message string, params ...interface{}) error {
	return New(ERR_SCRIPT_TOO_LONG, message, params...)
}
func NewPointNotOnCurveError(message string, params ...interface{}) error {
	return New(ERR_POINT_NOT_ON_CURVE, message, params...)
}
func NewValueOverflowError(message string, params ...interface{}) error {
	return New(ERR_VALUE_OVERFLOW, message, params...)
}
func NewTrailingDataError(message string, params ...interface{}) error {
	return New(ERR_TRAILING_DATA, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewStorageExistsError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_EXISTS, message, params...)
}
