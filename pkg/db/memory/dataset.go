package memory

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset is the seed content of every collection
type Dataset struct {
	Products    []v1.Product   `yaml:"products"`
	Categories  []v1.Category  `yaml:"categories"`
	Posts       []v1.Post      `yaml:"posts"`
	CaseStudies []v1.CaseStudy `yaml:"caseStudies"`
	Leads       []v1.Lead      `yaml:"leads"`
	Inquiries   []v1.Inquiry   `yaml:"inquiries"`
	Media       []v1.Media     `yaml:"media"`
	Users       []v1.User      `yaml:"users"`
	Settings    []v1.Setting   `yaml:"settings"`
}

// Demo returns the data set compiled into the binary
func Demo() (*Dataset, error) {
	return Load(bytes.NewReader(demoYAML))
}

// LoadFile reads a data set from path, which may start with ~
func LoadFile(path string) (*Dataset, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("unable to open data set: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("unable to decode data set: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks that every record has an id that is unique in its
// collection
func (ds *Dataset) Validate() error {
	checks := []struct {
		name string
		ids  []string
	}{
		{"products", ids(ds.Products)},
		{"categories", ids(ds.Categories)},
		{"posts", ids(ds.Posts)},
		{"caseStudies", ids(ds.CaseStudies)},
		{"leads", ids(ds.Leads)},
		{"inquiries", ids(ds.Inquiries)},
		{"media", ids(ds.Media)},
		{"users", ids(ds.Users)},
		{"settings", ids(ds.Settings)},
	}
	for _, c := range checks {
		seen := map[string]bool{}
		for i, id := range c.ids {
			if id == "" {
				return fmt.Errorf("%s[%d] has no id", c.name, i)
			}
			if seen[id] {
				return fmt.Errorf("%s: duplicate id %q", c.name, id)
			}
			seen[id] = true
		}
	}
	return nil
}

func ids[T v1.Item](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Identifier()
	}
	return out
}
