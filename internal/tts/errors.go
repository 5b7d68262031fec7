package tts

type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }

// ErrInvalidRequest marks a synthesis request that fails validation.
func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err marks a rejected synthesis request.
func IsInvalidRequest(err error) bool {
	_, ok := err.(invalidRequestError)
	return ok
}
