package aztable

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
)

const edmDateTime = "Edm.DateTime"

// wireEntity is the JSON shape of a todo entity in the Table service.
// Timestamp and the odata.etag annotation are only present on reads.
type wireEntity struct {
	PartitionKey    string     `json:"PartitionKey"`
	RowKey          string     `json:"RowKey"`
	Timestamp       *time.Time `json:"Timestamp,omitempty"`
	ETag            string     `json:"odata.etag,omitempty"`
	CreatedTime     time.Time  `json:"CreatedTime"`
	CreatedTimeType string     `json:"CreatedTime@odata.type,omitempty"`
	TaskDescription string     `json:"TaskDescription"`
	IsCompleted     bool       `json:"IsCompleted"`
}

func marshalEntity(e todo.Entity) ([]byte, error) {
	b, err := json.Marshal(wireEntity{
		PartitionKey:    e.PartitionKey,
		RowKey:          e.RowKey,
		CreatedTime:     e.CreatedTime.UTC(),
		CreatedTimeType: edmDateTime,
		TaskDescription: e.TaskDescription,
		IsCompleted:     e.IsCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding entity %s/%s: %w", e.PartitionKey, e.RowKey, err)
	}
	return b, nil
}

func unmarshalEntity(b []byte) (todo.Entity, error) {
	var w wireEntity
	if err := json.Unmarshal(b, &w); err != nil {
		return todo.Entity{}, fmt.Errorf("decoding entity: %w", err)
	}

	e := todo.Entity{
		PartitionKey:    w.PartitionKey,
		RowKey:          w.RowKey,
		CreatedTime:     w.CreatedTime.UTC(),
		TaskDescription: w.TaskDescription,
		IsCompleted:     w.IsCompleted,
		ETag:            todo.ETag(w.ETag),
	}
	if w.Timestamp != nil {
		e.Timestamp = w.Timestamp.UTC()
	}
	return e, nil
}
