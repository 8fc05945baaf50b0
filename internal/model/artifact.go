package model

import "time"

// ArtifactKind identifies a schedule export format.
type ArtifactKind string

const (
	ArtifactGantt ArtifactKind = "gantt"
	ArtifactCSV   ArtifactKind = "csv"
)

// Valid reports whether k names a supported export format.
func (k ArtifactKind) Valid() bool { return k == ArtifactGantt || k == ArtifactCSV }

// Artifact is a rendered schedule export stored in object storage.
type Artifact struct {
	ID          string       `json:"id"`
	PlanID      string       `json:"plan_id"`
	Kind        ArtifactKind `json:"kind"`
	StoragePath string       `json:"storage_path"`
	Size        int64        `json:"size"`
	ContentType string       `json:"content_type"`
	CreatedAt   time.Time    `json:"created_at"`
}
