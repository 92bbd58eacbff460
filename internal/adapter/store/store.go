package store

import "github.com/soundtide/soundtide/internal/domain"

// SegmentLoader is the interface for loading the raw segment table from a
// backing asset. Inference and validation happen later, in domain.NewTable.
type SegmentLoader interface {
	// Load reads every segment, each with whatever constituent subset the
	// asset supplies for it.
	Load() ([]domain.RawSegment, error)
}
