package v1

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Post struct {
	ID          string     `json:"id,omitempty" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Slug        string     `json:"slug" yaml:"slug"`
	Excerpt     string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty" yaml:"body,omitempty"`
	Cover       string     `json:"cover,omitempty" yaml:"cover,omitempty"`
	Author      string     `json:"author,omitempty" yaml:"author,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Status      Status     `json:"status" yaml:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
}

func (p Post) Identifier() string  { return p.ID }
func (p Post) Label() string       { return p.Title }
func (p Post) Markdown() string    { return p.Body }
func (p Post) FilterValue() string { return strings.Join(append([]string{p.Title, p.Slug, p.Author}, p.Tags...), " ") }

func (p Post) Caption() string {
	if p.PublishedAt != nil {
		return p.Author + " · " + humanize.Time(*p.PublishedAt)
	}
	return p.Excerpt
}

type CaseStudy struct {
	ID      string   `json:"id,omitempty" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Slug    string   `json:"slug" yaml:"slug"`
	Client  string   `json:"client,omitempty" yaml:"client,omitempty"`
	Summary string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Body    string   `json:"body,omitempty" yaml:"body,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Images  []Image  `json:"images,omitempty" yaml:"images,omitempty"`
	Status  Status   `json:"status" yaml:"status"`
}

func (c CaseStudy) Identifier() string { return c.ID }
func (c CaseStudy) Label() string      { return c.Title }
func (c CaseStudy) Markdown() string   { return c.Body }
func (c CaseStudy) Caption() string {
	if c.Client == "" {
		return c.Summary
	}
	return c.Client + " · " + c.Summary
}
func (c CaseStudy) FilterValue() string {
	return strings.Join(append([]string{c.Title, c.Slug, c.Client}, c.Tags...), " ")
}

func (p Post) State() Status      { return p.Status }
func (c CaseStudy) State() Status { return c.Status }
