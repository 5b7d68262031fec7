package voices

type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "voice not found: " + e.id }

// ErrNotFound marks a voice that is not registered or missing its files.
func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether err marks an unknown voice.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

type alreadyExistsError struct{ id string }

func (e alreadyExistsError) Error() string { return "voice already exists: " + e.id }

// ErrAlreadyExists marks an upload that collides with a registered voice.
func ErrAlreadyExists(id string) error { return alreadyExistsError{id: id} }

// IsAlreadyExists reports whether err marks a duplicate voice.
func IsAlreadyExists(err error) bool {
	_, ok := err.(alreadyExistsError)
	return ok
}

type invalidOperationError struct{ msg string }

func (e invalidOperationError) Error() string { return e.msg }

// ErrInvalidOperation marks an operation the voice store rejects, such as
// deleting a built-in voice.
func ErrInvalidOperation(msg string) error { return invalidOperationError{msg: msg} }

// IsInvalidOperation reports whether err marks a rejected operation.
func IsInvalidOperation(err error) bool {
	_, ok := err.(invalidOperationError)
	return ok
}

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation marks reference audio that fails the quality checks.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err marks invalid reference audio.
func IsValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}
