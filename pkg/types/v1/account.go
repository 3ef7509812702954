package v1

import (
	"fmt"
	"time"
)

// Media is an uploaded asset in the media library
type Media struct {
	ID        string    `json:"id,omitempty" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	PublicID  string    `json:"publicId,omitempty" yaml:"publicId,omitempty"`
	Filename  string    `json:"filename,omitempty" yaml:"filename,omitempty"`
	Format    string    `json:"format,omitempty" yaml:"format,omitempty"`
	Width     int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int       `json:"height,omitempty" yaml:"height,omitempty"`
	Alt       string    `json:"alt,omitempty" yaml:"alt,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

func (m Media) Identifier() string  { return m.ID }
func (m Media) Created() time.Time  { return m.CreatedAt }
func (m Media) FilterValue() string { return m.Filename + " " + m.Alt }
func (m Media) Label() string {
	if m.Filename != "" {
		return m.Filename
	}
	return m.URL
}
func (m Media) Caption() string {
	if m.Width == 0 {
		return m.Format
	}
	return fmt.Sprintf("%s %dx%d", m.Format, m.Width, m.Height)
}

type User struct {
	ID     string `json:"id,omitempty" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   Role   `json:"role" yaml:"role"`
	Status Status `json:"status" yaml:"status"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

func (u User) Identifier() string  { return u.ID }
func (u User) Label() string       { return u.Name }
func (u User) Caption() string     { return joinNonEmpty(u.Email, string(u.Role)) }
func (u User) FilterValue() string { return u.Name + " " + u.Email }

// Setting is a single key/value pair of site configuration
type Setting struct {
	ID    string `json:"id,omitempty" yaml:"id"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

func (s Setting) Identifier() string  { return s.ID }
func (s Setting) Label() string       { return s.Key }
func (s Setting) Caption() string     { return s.Value }
func (s Setting) FilterValue() string { return s.Key + " " + s.Group }

func (u User) State() Status { return u.Status }
