package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"precatorios/internal/core"
)

// ImportRequest asks the worker to re-import one source from its spreadsheet.
type ImportRequest struct {
	ID          uuid.UUID   `json:"id"`
	Source      core.Source `json:"source"`
	RequestedAt time.Time   `json:"requested_at"`
}

// NewImportRequest creates a request with a fresh id.
func NewImportRequest(source core.Source) *ImportRequest {
	return &ImportRequest{
		ID:          uuid.New(),
		Source:      source,
		RequestedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ImportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportRequestFromJSON decodes and validates a message body.
func ImportRequestFromJSON(data []byte) (*ImportRequest, error) {
	var msg ImportRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == uuid.Nil {
		return nil, errors.New("import request without id")
	}
	src, err := core.ParseSource(msg.Source.String())
	if err != nil {
		return nil, fmt.Errorf("import request %s: %w", msg.ID, err)
	}
	msg.Source = src
	return &msg, nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks a handler error as not worth retrying: the message is
// rejected instead of requeued.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
