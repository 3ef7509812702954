package draft

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotOpen is returned when a closed session is asked to commit
	ErrNotOpen = errors.New("no draft is open")
	// ErrInFlight is returned when a commit is started while another one
	// has not finished
	ErrInFlight = errors.New("draft is already being saved")
	// ErrDiscarded is returned for a save that finished after its session
	// was cancelled or reopened
	ErrDiscarded = errors.New("draft was closed before the save finished")
	ErrNoImages  = errors.New("this kind of record takes no images")
)

// ValidationError lists the fields that failed local checks. It is raised
// before any request is made.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Errors[k]))
	}
	return "invalid draft: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Errors }

// Field returns the message for key, or "" when key is valid
func (e *ValidationError) Field(key string) string {
	if err, ok := e.Errors[key]; ok && err != nil {
		return err.Error()
	}
	return ""
}

// AttachmentSyncError means the record was saved but its image list was
// not. Item is the persisted record; the session stays open bound to ID so
// a retry updates instead of creating a duplicate.
type AttachmentSyncError struct {
	ID   string
	Item v1.Item
	Err  error
}

func (e *AttachmentSyncError) Error() string {
	return fmt.Sprintf("saved %s but its images were not updated: %s", e.ID, e.Err)
}

func (e *AttachmentSyncError) Unwrap() error { return e.Err }
