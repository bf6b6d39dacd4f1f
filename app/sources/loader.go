package sources

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads link source files from a directory.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll loads all YAML source files. A missing directory yields an empty
// list, not an error.
func (l *Loader) LoadAll() ([]*Source, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	var loaded []*Source
	for _, file := range files {
		source, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(source); err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", file, err)
		}

		loaded = append(loaded, source)
		slog.Debug("Loaded link source", "file", file, "links", len(source.Links), "feeds", len(source.Feeds))
	}

	return loaded, nil
}

func (l *Loader) loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Name == "" {
		source.Name = filepath.Base(path)
	}

	return &source, nil
}

func (l *Loader) validate(source *Source) error {
	if len(source.Links) == 0 && len(source.Feeds) == 0 {
		return fmt.Errorf("source must list at least one link or feed")
	}

	for i, link := range source.Links {
		if err := validateURL(link); err != nil {
			return fmt.Errorf("invalid link at index %d: %w", i, err)
		}
	}
	for i, feed := range source.Feeds {
		if err := validateURL(feed); err != nil {
			return fmt.Errorf("invalid feed at index %d: %w", i, err)
		}
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
	return nil
}
