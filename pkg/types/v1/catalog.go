package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Spec struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type Product struct {
	ID          string    `json:"id,omitempty" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Slug        string    `json:"slug" yaml:"slug"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Price       float64   `json:"price,omitempty" yaml:"price,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	Summary     string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Specs       []Spec    `json:"specs,omitempty" yaml:"specs,omitempty"`
	Images      []Image   `json:"images,omitempty" yaml:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

func (p Product) Identifier() string { return p.ID }
func (p Product) Label() string      { return p.Name }
func (p Product) Created() time.Time { return p.CreatedAt }
func (p Product) FilterValue() string {
	return strings.Join(append([]string{p.Name, p.Slug, p.Category}, p.Tags...), " ")
}

func (p Product) Caption() string {
	parts := []string{}
	if p.Price > 0 {
		parts = append(parts, "€"+humanize.CommafWithDigits(p.Price, 2))
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if n := len(p.Images); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, "image")))
	}
	return strings.Join(parts, " · ")
}

type Category struct {
	ID          string `json:"id,omitempty" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status `json:"status" yaml:"status"`
}

func (c Category) Identifier() string  { return c.ID }
func (c Category) Label() string       { return c.Name }
func (c Category) Caption() string     { return c.Description }
func (c Category) FilterValue() string { return c.Name + " " + c.Slug }

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (p Product) State() Status  { return p.Status }
func (c Category) State() Status { return c.Status }
