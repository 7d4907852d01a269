package sentinel

var _ error = Error("")

// Error is an error whose identity is its message. Two Error values are equal
// when their strings are equal, which is what errors.Is compares.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
