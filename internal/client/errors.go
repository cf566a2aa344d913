package client

import "fmt"

// TransportError reports that the descriptor document could not be
// retrieved or parsed.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("descriptor document %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError reports that no descriptor in the document matches ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.ID)
}

// InvalidDescriptorError reports a descriptor whose schema cannot be rendered.
type InvalidDescriptorError struct {
	ID     string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("invalid descriptor %q: %s", e.ID, e.Reason)
}
