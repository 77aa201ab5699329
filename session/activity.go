package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType classifies an activity record.
type ActivityType string

const (
	ActivityBlockCreated    ActivityType = "block_created"
	ActivityBlockUpdated    ActivityType = "block_updated"
	ActivityBlockMoved      ActivityType = "block_moved"
	ActivityBlockCompleted  ActivityType = "block_completed"
	ActivityInsightCaptured ActivityType = "insight_captured"
	ActivityContextExported ActivityType = "context_exported"
)

// IsValid returns true if the activity type is a known value.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityBlockCreated, ActivityBlockUpdated, ActivityBlockMoved,
		ActivityBlockCompleted, ActivityInsightCaptured, ActivityContextExported:
		return true
	default:
		return false
	}
}

// String returns the string representation of the activity type.
func (t ActivityType) String() string {
	return string(t)
}

// ActivityData is the typed payload attached to an activity record. Known
// payload kinds get concrete types; anything else round-trips through
// RawData for forward compatibility.
type ActivityData interface {
	activityKind() string
}

// BlockMoveData records a lane change.
type BlockMoveData struct {
	FromLane string `json:"from_lane"`
	ToLane   string `json:"to_lane"`
}

func (BlockMoveData) activityKind() string { return "block_move" }

// BlockChangeData records which fields of a block changed.
type BlockChangeData struct {
	Fields []string `json:"fields"`
}

func (BlockChangeData) activityKind() string { return "block_change" }

// InsightRefData links an activity to a captured insight.
type InsightRefData struct {
	InsightID string `json:"insight_id"`
}

func (InsightRefData) activityKind() string { return "insight_ref" }

// RawData is the fallback payload for unknown kinds. It preserves the
// original JSON untouched.
type RawData json.RawMessage

func (RawData) activityKind() string { return "other" }

// MarshalJSON emits the raw bytes unchanged.
func (d RawData) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

// UnmarshalJSON stores the raw bytes unchanged.
func (d *RawData) UnmarshalJSON(data []byte) error {
	*d = append((*d)[0:0], data...)
	return nil
}

// ActivityRecord is a single typed event inside a session. Records are
// append-only within their session.
type ActivityRecord struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	BlockID     string       `json:"block_id,omitempty"`
	Description string       `json:"description"`
	Data        ActivityData `json:"-"`
	At          time.Time    `json:"at"`
}

// activityJSON is the wire shape of an ActivityRecord, with the payload
// carried as a kind-tagged raw message.
type activityJSON struct {
	ID          string          `json:"id"`
	Type        ActivityType    `json:"type"`
	BlockID     string          `json:"block_id,omitempty"`
	Description string          `json:"description"`
	DataKind    string          `json:"data_kind,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	At          time.Time       `json:"at"`
}

// MarshalJSON implements json.Marshaler, tagging the payload with its kind.
func (r ActivityRecord) MarshalJSON() ([]byte, error) {
	wire := activityJSON{
		ID:          r.ID,
		Type:        r.Type,
		BlockID:     r.BlockID,
		Description: r.Description,
		At:          r.At,
	}

	if r.Data != nil {
		raw, err := json.Marshal(r.Data)
		if err != nil {
			return nil, fmt.Errorf("session: marshal activity data: %w", err)
		}
		wire.DataKind = r.Data.activityKind()
		wire.Data = raw
	}

	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Unknown payload kinds are
// preserved as RawData rather than rejected.
func (r *ActivityRecord) UnmarshalJSON(data []byte) error {
	var wire activityJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.ID = wire.ID
	r.Type = wire.Type
	r.BlockID = wire.BlockID
	r.Description = wire.Description
	r.At = wire.At
	r.Data = nil

	if len(wire.Data) == 0 {
		return nil
	}

	switch wire.DataKind {
	case "block_move":
		var d BlockMoveData
		if err := json.Unmarshal(wire.Data, &d); err != nil {
			return fmt.Errorf("session: unmarshal block_move data: %w", err)
		}
		r.Data = d
	case "block_change":
		var d BlockChangeData
		if err := json.Unmarshal(wire.Data, &d); err != nil {
			return fmt.Errorf("session: unmarshal block_change data: %w", err)
		}
		r.Data = d
	case "insight_ref":
		var d InsightRefData
		if err := json.Unmarshal(wire.Data, &d); err != nil {
			return fmt.Errorf("session: unmarshal insight_ref data: %w", err)
		}
		r.Data = d
	default:
		r.Data = RawData(wire.Data)
	}

	return nil
}
