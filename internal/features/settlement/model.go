package settlement

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExportLog records one export run to the settlement warehouse.
type ExportLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StartedAt  time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt time.Time          `bson:"finished_at" json:"finished_at"`
	Exported   int                `bson:"exported" json:"exported"`
	Failed     int                `bson:"failed" json:"failed"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	Trigger    string             `bson:"trigger" json:"trigger"` // manual, scheduled
}
