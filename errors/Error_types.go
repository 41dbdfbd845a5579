package errors

var (
	ErrUnknown           = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument   = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrProcessing        = New(ERR_PROCESSING, "error processing")
	ErrConfiguration     = New(ERR_CONFIGURATION, "configuration error")
	ErrNotFound          = New(ERR_NOT_FOUND, "not found")
	ErrConflict          = New(ERR_CONFLICT, "conflict")
	ErrServiceNotStarted = New(ERR_SERVICE_NOT_STARTED, "service not started")
	ErrServiceError      = New(ERR_SERVICE_ERROR, "service error")
	ErrMethodNotFound    = New(ERR_METHOD_NOT_FOUND, "method not found")
	ErrInvalidParameter  = New(ERR_INVALID_PARAMETER, "invalid parameter")
	ErrParse             = New(ERR_PARSE, "parse error")
	ErrAmountOverflow    = New(ERR_AMOUNT_OVERFLOW, "amount out of range")
	ErrAmountInvalid     = New(ERR_AMOUNT_INVALID, "invalid amount")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewConflictError(message string, params ...interface{}) error {
	return New(ERR_CONFLICT, message, params...)
}

func NewServiceNotStartedError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_NOT_STARTED, message, params...)
}

func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewMethodNotFoundError(message string, params ...interface{}) error {
	return New(ERR_METHOD_NOT_FOUND, message, params...)
}

func NewInvalidParameterError(message string, params ...interface{}) error {
	return New(ERR_INVALID_PARAMETER, message, params...)
}

func NewParseError(message string, params ...interface{}) error {
	return New(ERR_PARSE, message, params...)
}

func NewAmountOverflowError(message string, params ...interface{}) error {
	return New(ERR_AMOUNT_OVERFLOW, message, params...)
}

func NewAmountInvalidError(message string, params ...interface{}) error {
	return New(ERR_AMOUNT_INVALID, message, params...)
}
