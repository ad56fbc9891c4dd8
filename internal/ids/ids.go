package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique identifier for client-originated records
// (outgoing messages, idempotency keys).
func New() string {
	return ksuid.New().String()
}
