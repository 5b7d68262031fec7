package manager

// modelNotFoundError signals a model id absent from the static registry.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates an unknown model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// taskNotFoundError signals an unknown load-task id.
type taskNotFoundError struct{ id string }

func (e taskNotFoundError) Error() string { return "task not found: " + e.id }

func ErrTaskNotFound(id string) error { return taskNotFoundError{id: id} }

// IsTaskNotFound reports whether the error indicates an unknown task id.
func IsTaskNotFound(err error) bool {
	_, ok := err.(taskNotFoundError)
	return ok
}

// notLoadedError signals an operation against a model with no live handle.
type notLoadedError struct{ id string }

func (e notLoadedError) Error() string { return "model not loaded: " + e.id }

func ErrNotLoaded(id string) error { return notLoadedError{id: id} }

// IsNotLoaded reports whether the error indicates an unloaded model.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// invalidOperationError signals a request that can never succeed for the
// target (e.g. device-switching a CPU-only model).
type invalidOperationError struct{ msg string }

func (e invalidOperationError) Error() string { return e.msg }

func ErrInvalidOperation(msg string) error { return invalidOperationError{msg: msg} }

// IsInvalidOperation reports whether the error indicates a forbidden operation.
func IsInvalidOperation(err error) bool {
	_, ok := err.(invalidOperationError)
	return ok
}

// unsupportedError signals a capability the model's backend lacks.
type unsupportedError struct{ msg string }

func (e unsupportedError) Error() string { return e.msg }

func ErrUnsupported(msg string) error { return unsupportedError{msg: msg} }

// IsUnsupported reports whether the error indicates a missing capability.
func IsUnsupported(err error) bool {
	_, ok := err.(unsupportedError)
	return ok
}
