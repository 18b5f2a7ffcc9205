package validator

// Validator validates a struct using its validation tags.
type Validator interface {
	Validate(data any) error
}
