package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/byxorna/shipwright/pkg/remote"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/dustin/go-humanize"
)

// MaxBytes is the default ceiling for a single image
const MaxBytes int64 = 8 << 20

var (
	ErrNothingToConfirm = errors.New("no uploaded image to attach")
	ErrBusy             = errors.New("an upload is already running")
)

// State of the one pending attachment a session holds
type State int

const (
	Empty State = iota
	Picked
	Uploading
	Attached
	Failed
)

func (s State) String() string {
	return [...]string{"empty", "picked", "uploading", "attached", "failed"}[s]
}

// ValidationError rejects a pick before anything is sent
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Attachment is a stored image waiting to be merged into a draft
type Attachment struct {
	URL        string
	ExternalID string
	Width      int
	Height     int
	Format     string
}

func (a Attachment) Image() v1.Image {
	return v1.Image{URL: a.URL, PublicID: a.ExternalID}
}

// Attacher receives a confirmed attachment, e.g. a draft.Session
type Attacher interface {
	Attach(img v1.Image) error
}

// Session tracks a single pick → upload → confirm cycle. Like the list
// manager it is driven from one loop; Job.Run is the only part that runs
// elsewhere.
type Session struct {
	up       remote.Uploader
	maxBytes int64
	log      *slog.Logger

	state      State
	file       File
	preview    Preview
	attachment Attachment
	err        error

	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Session)

func WithMaxBytes(n int64) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func NewSession(up remote.Uploader, opts ...Option) *Session {
	s := &Session{up: up, maxBytes: MaxBytes, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Pick validates f and makes it the pending file, discarding whatever was
// pending before. A rejected pick leaves the session empty.
func (s *Session) Pick(f File) error {
	s.discard()

	if !strings.HasPrefix(f.Type, "image/") {
		s.err = &ValidationError{Reason: fmt.Sprintf("%s is not an image (%s)", f.Name, f.Type)}
		return s.err
	}
	if f.Size > s.maxBytes {
		s.err = &ValidationError{Reason: fmt.Sprintf("%s is %s, images are limited to %s",
			f.Name, humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(s.maxBytes)))}
		return s.err
	}

	s.file = f
	s.preview = newPreview(f)
	s.state = Picked
	return nil
}

// Start hands out the upload of the picked file
func (s *Session) Start() (Job, error) {
	switch s.state {
	case Picked, Failed:
	case Uploading:
		return Job{}, ErrBusy
	default:
		return Job{}, fmt.Errorf("nothing picked to upload")
	}
	if s.file.open == nil {
		return Job{}, fmt.Errorf("%s has no content", s.file.Name)
	}
	s.state = Uploading
	s.err = nil
	return Job{Gen: s.gen, File: s.file, up: s.up, ctx: s.ctx}, nil
}

// Finish records the outcome of an upload. Results for a file that has
// since been replaced or cancelled are dropped.
func (s *Session) Finish(res Result) bool {
	if res.Gen != s.gen || s.state != Uploading {
		s.log.Debug("dropping stale upload", "gen", res.Gen, "current", s.gen)
		return false
	}
	if res.Err != nil {
		s.log.Warn("upload failed", "file", s.file.Name, "error", res.Err)
		s.state = Failed
		s.err = res.Err
		return true
	}
	s.attachment = Attachment{
		URL:        res.Uploaded.URL,
		ExternalID: res.Uploaded.PublicID,
		Width:      res.Uploaded.Width,
		Height:     res.Uploaded.Height,
		Format:     res.Uploaded.Format,
	}
	s.state = Attached
	return true
}

// Confirm merges the attachment into dst and clears the session
func (s *Session) Confirm(dst Attacher) (Attachment, error) {
	if s.state != Attached {
		return Attachment{}, ErrNothingToConfirm
	}
	a := s.attachment
	if err := dst.Attach(a.Image()); err != nil {
		return Attachment{}, err
	}
	s.discard()
	return a, nil
}

// Cancel drops the pending file; an upload still running is ignored
func (s *Session) Cancel() {
	s.discard()
}

// Close cancels any running upload for good
func (s *Session) Close() {
	s.discard()
	s.cancel()
}

func (s *Session) discard() {
	s.gen++
	s.state = Empty
	s.file = File{}
	s.preview = Preview{}
	s.attachment = Attachment{}
	s.err = nil
}

// Upload picks, uploads and finishes f in one blocking call
func (s *Session) Upload(ctx context.Context, f File) (Attachment, error) {
	if err := s.Pick(f); err != nil {
		return Attachment{}, err
	}
	job, err := s.Start()
	if err != nil {
		return Attachment{}, err
	}
	s.Finish(job.Run(ctx))
	if s.state != Attached {
		return Attachment{}, s.err
	}
	return s.attachment, nil
}

// Message is the text to show for the current error: the server's own
// message when it sent one.
func (s *Session) Message() string {
	if s.err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(s.err, &ve) {
		return ve.Reason
	}
	return remote.Message(s.err, "upload failed")
}

func (s *Session) State() State           { return s.state }
func (s *Session) Preview() Preview       { return s.preview }
func (s *Session) Attachment() Attachment { return s.attachment }
func (s *Session) Err() error             { return s.err }
func (s *Session) MaxBytes() int64        { return s.maxBytes }
func (s *Session) Busy() bool             { return s.state == Uploading }
