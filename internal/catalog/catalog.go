// Package catalog loads the show list seeded into the store at startup.
package catalog

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
	"gopkg.in/yaml.v3"
)

type file struct {
	Shows []domain.Show `yaml:"shows"`
}

// Load returns the shows in path, or the default seed when path is empty.
func Load(path string) ([]domain.Show, error) {
	if path == "" {
		return domain.DefaultShows(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open shows file")
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) ([]domain.Show, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode shows")
	}
	if err := validate(doc.Shows); err != nil {
		return nil, err
	}
	return doc.Shows, nil
}

func validate(shows []domain.Show) error {
	if len(shows) == 0 {
		return errors.Wrap(domain.ErrInvalidCatalog, "no shows")
	}
	seen := make(map[int]struct{}, len(shows))
	for _, s := range shows {
		if s.ID <= 0 {
			return errors.Wrapf(domain.ErrInvalidCatalog, "show id %d is not positive", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return errors.Wrapf(domain.ErrInvalidCatalog, "duplicate show id %d", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
