package v1

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Lead is a sales contact captured from the site or entered by hand
type Lead struct {
	ID        string    `json:"id,omitempty" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Company   string    `json:"company,omitempty" yaml:"company,omitempty"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

func (l Lead) Identifier() string  { return l.ID }
func (l Lead) Label() string       { return l.Name }
func (l Lead) Created() time.Time  { return l.CreatedAt }
func (l Lead) FilterValue() string { return strings.Join([]string{l.Name, l.Email, l.Company}, " ") }
func (l Lead) Caption() string     { return joinNonEmpty(l.Email, l.Company, relative(l.CreatedAt)) }

// Inquiry is a message sent through the contact form
type Inquiry struct {
	ID        string    `json:"id,omitempty" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Product   string    `json:"product,omitempty" yaml:"product,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

func (i Inquiry) Identifier() string { return i.ID }
func (i Inquiry) Created() time.Time { return i.CreatedAt }
func (i Inquiry) Label() string {
	if i.Subject != "" {
		return i.Subject
	}
	return i.Name
}
func (i Inquiry) FilterValue() string {
	return strings.Join([]string{i.Name, i.Email, i.Subject, i.Product}, " ")
}
func (i Inquiry) Caption() string { return joinNonEmpty(i.Name, i.Email, relative(i.CreatedAt)) }

func relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}

func (l Lead) State() Status    { return l.Status }
func (i Inquiry) State() Status { return i.Status }
