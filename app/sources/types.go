package sources

// Source is one link source file: a named collection of direct article links
// and RSS/Atom feeds whose entries should be ingested.
type Source struct {
	Name    string   `yaml:"name"`
	Enabled *bool    `yaml:"enabled"`
	Links   []string `yaml:"links"`
	Feeds   []string `yaml:"feeds"`
}

// IsEnabled defaults to true when the field is omitted.
func (s *Source) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}
