package segment

import (
	"errors"
	"fmt"
)

// Sentinel failures, one per stage that can fail.
var (
	// ErrPreprocess reports an empty or malformed source image.
	ErrPreprocess = errors.New("preprocess failure")

	// ErrRegionDiscovery reports a mask that contours cannot be traced on.
	ErrRegionDiscovery = errors.New("region discovery failure")

	// ErrCrop reports a degenerate crop rectangle, or one that lies outside
	// the image even after the unpadded fallback.
	ErrCrop = errors.New("crop failure")
)

// Stage names a pipeline stage in a StageError.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageRegions    Stage = "regions"
	StageCrop       Stage = "crop"
)

// StageError is returned by Segment when one stage fails for an image.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, or "" if err did not come
// from Segment.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
