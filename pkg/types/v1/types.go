package v1

import (
	"time"

	"github.com/enescakir/emoji"
)

// Item is anything the admin manages as a row in a collection
type Item interface {
	Identifier() string
	Label() string
	Caption() string
	FilterValue() string
}

type Status string

// Stateful items carry a lifecycle status
type Stateful interface {
	State() Status
}

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"

	// leads
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"

	// inquiries
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"

	// users
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

var (
	// PublishStatuses is the lifecycle of catalog and editorial content. The
	// first entry is the least visible state and the default on creation.
	PublishStatuses = []Status{StatusDraft, StatusPublished, StatusArchived}
	LeadStatuses    = []Status{StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost}
	InquiryStatuses = []Status{StatusNew, StatusOpen, StatusResolved}
	UserStatuses    = []Status{StatusDisabled, StatusActive}
)

func (s Status) String() string { return string(s) }

// Icon is a glyph shown next to rows in listings
func (s Status) Icon() string {
	switch s {
	case StatusPublished, StatusActive, StatusWon, StatusResolved:
		return emoji.CheckBoxWithCheck.String()
	case StatusDraft, StatusOpen, StatusContacted, StatusQualified:
		return emoji.ConstructionWorker.String()
	case StatusArchived, StatusLost, StatusDisabled:
		return emoji.CrossMark.String()
	case StatusNew:
		return emoji.Sun.String()
	default:
		return emoji.QuestionMark.String()
	}
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Image is a remotely stored picture attached to a record
type Image struct {
	URL      string `json:"url" yaml:"url"`
	PublicID string `json:"publicId,omitempty" yaml:"publicId,omitempty"`
	Alt      string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Timestamped items can be ordered by their creation time
type Timestamped interface {
	Created() time.Time
}

type ByCreated[T Timestamped] []T

func (p ByCreated[T]) Len() int      { return len(p) }
func (p ByCreated[T]) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ByCreated[T]) Less(i, j int) bool {
	// newest first
	return p[i].Created().After(p[j].Created())
}
