package sources

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every parse reason wraps ErrParse, so errors.Is(err, ErrParse)
// matches any of them.
var (
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("parse error")

	ErrMissingAPIKey       = fmt.Errorf("%w: missing api key", ErrParse)
	ErrNoCaptionsAvailable = fmt.Errorf("%w: no captions available", ErrParse)
	ErrNoEnglishTrack      = fmt.Errorf("%w: no english track", ErrParse)
	ErrEmptyTranscript     = fmt.Errorf("%w: empty transcript", ErrParse)

	ErrInvalidURL = errors.New("not a youtube video url")
)

// Pipeline stage names, used in errors and logs.
const (
	stageBootstrap = "bootstrap"
	stageCatalog   = "catalog"
	stageTrack     = "track"
	stageTimedText = "timedtext"
)

// AcquisitionError reports the first failing stage of a pipeline run.
// It unwraps to both its kind (ErrNetwork or one of the parse reasons) and the cause.
type AcquisitionError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *AcquisitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("youtube %s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("youtube %s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func networkError(stage string, err error) error {
	return &AcquisitionError{Stage: stage, Kind: ErrNetwork, Err: err}
}

func parseError(stage string, kind, cause error) error {
	return &AcquisitionError{Stage: stage, Kind: kind, Err: cause}
}

// checkpoint aborts the pipeline between stages once ctx is done.
func checkpoint(ctx context.Context, next string) error {
	if err := ctx.Err(); err != nil {
		return networkError(next, err)
	}
	return nil
}

// UserMessage maps an acquisition error to the text shown to a user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "Invalid YouTube URL"
	case errors.Is(err, context.Canceled):
		return "Transcript request canceled"
	case errors.Is(err, ErrEmptyTranscript):
		return "The English captions for this video are empty"
	case errors.Is(err, ErrNoEnglishTrack):
		return "No English captions for this video"
	case errors.Is(err, ErrNoCaptionsAvailable):
		return "No transcript available for this video"
	case errors.Is(err, ErrMissingAPIKey):
		return "YouTube page format not recognized, try again later"
	case errors.Is(err, ErrNetwork):
		return "Network error while loading the transcript, check the connection and retry"
	}
	return "Error loading transcript: " + err.Error()
}
