package util

const (
	ERROR_BAD_ADDRESS        = 201
	ERROR_BAD_INPUT_PATH     = 202
	ERROR_BAD_OUTPUT_PATH    = 203
	ERROR_CONVERSION_FAILED  = 204
	ERROR_BIND_FAILED        = 205
	ERROR_BAD_LOGGING_CONFIG = 206
)

type ErrorWithCode struct {
	StatusCode    int
	InternalError error
}

var _ error = &ErrorWithCode{}

func (e ErrorWithCode) Error() string {
	return e.InternalError.Error()
}

func (e ErrorWithCode) Unwrap() error {
	return e.InternalError
}
