package usecase

import (
	"github.com/soundtide/soundtide/internal/adapter/store"
	"github.com/soundtide/soundtide/internal/domain"
)

// LoadTable reads the raw segment set through a loader and builds the
// validated, inference-completed table. Every entrypoint constructs its
// table through here, so the loader backend stays swappable.
func LoadTable(loader store.SegmentLoader, opts domain.InferenceOptions) (*domain.Table, error) {
	raw, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return domain.NewTable(raw, opts)
}
