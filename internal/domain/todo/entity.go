package todo

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// PartitionKey is the partition shared by every todo in the table store.
const PartitionKey = "TODO"

// ETag is the opaque concurrency token the store assigns to every version of
// an entity.
type ETag string

// ETagAny matches any version of an entity. Passing it to a conditional
// store operation makes the operation unconditional.
const ETagAny ETag = "*"

// NewETag returns a fresh weak ETag for stores that maintain their own
// concurrency tokens.
func NewETag() ETag {
	id := uuid.New()
	return ETag(`W/"` + hex.EncodeToString(id[:]) + `"`)
}

// Entity is the persisted shape of a Todo: the four semantic fields plus the
// table-store addressing keys and the store-maintained system properties.
type Entity struct {
	PartitionKey string
	RowKey       string

	CreatedTime     time.Time
	TaskDescription string
	IsCompleted     bool

	// ETag and Timestamp are owned by the store. They are empty on entities
	// that have not been read from or written to a store yet.
	ETag      ETag
	Timestamp time.Time
}
