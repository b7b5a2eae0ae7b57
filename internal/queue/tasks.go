package queue

import "time"

const (
	TypeUsageRecord = "usage:record"
)

type UsageRecordPayload struct {
	APIKeyID   string    `json:"api_key_id"`
	KeyName    string    `json:"key_name"`
	Endpoint   string    `json:"endpoint"`
	RecordedAt time.Time `json:"recorded_at"`
}
