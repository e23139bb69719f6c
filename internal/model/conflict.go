package model

// ConflictResolution is the resolution state of a cross-document conflict.
// Conflicts start pending and transition once, to auto or manual; resolved
// conflicts are never reopened.
type ConflictResolution string

const (
	ResolutionPending ConflictResolution = "pending"
	ResolutionAuto    ConflictResolution = "auto"
	ResolutionManual  ConflictResolution = "manual"
)

// Conflict records two extractions of the same facility disagreeing on a
// numeric field.
type Conflict struct {
	ID            string             `json:"id"`
	FacilityName  string             `json:"facility_name"`
	Field         string             `json:"field"`
	SourceA       string             `json:"source_a"`
	ValueA        float64            `json:"value_a"`
	SourceB       string             `json:"source_b"`
	ValueB        float64            `json:"value_b"`
	Variance      float64            `json:"variance"` // relative, |a-b| / max(a,b)
	Resolution    ConflictResolution `json:"resolution"`
	ResolvedValue *float64           `json:"resolved_value,omitempty"`
}

// Resolved reports whether the conflict has left the pending state.
func (c Conflict) Resolved() bool {
	return c.Resolution != ResolutionPending
}
