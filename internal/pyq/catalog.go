package pyq

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/asteroid-belt/gatewise/internal/models"
)

// ErrInvalidCatalog is returned when a catalog file cannot be used.
var ErrInvalidCatalog = errors.New("invalid pyq catalog")

// catalogFile is the on-disk layout:
//
//	papers:
//	  - year: 2024
//	    branch: CS
//	    paperCode: CS1
//	    officialPaperUrl: https://gate2024.iisc.ac.in/...
//	    mirrors:
//	      - paper: https://gate.iitk.ac.in/...
type catalogFile struct {
	Papers []models.PyqItem `yaml:"papers"`
}

// LoadCatalog parses a YAML paper catalog. Missing ids are derived from
// year, branch and paper code, and a missing source defaults to official.
func LoadCatalog(r io.Reader) ([]models.PyqItem, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]int, len(file.Papers))
	items := make([]models.PyqItem, 0, len(file.Papers))
	for i, item := range file.Papers {
		if err := validate(item); err != nil {
			return nil, fmt.Errorf("%w: paper %d: %v", ErrInvalidCatalog, i+1, err)
		}
		if item.ID == "" {
			item.ID = models.PyqID(item.Year, item.Branch, item.PaperCode)
		}
		if item.Source == "" {
			item.Source = models.SourceOfficial
		}
		if prev, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: paper %d: id %s already used by paper %d", ErrInvalidCatalog, i+1, item.ID, prev)
		}
		seen[item.ID] = i + 1
		items = append(items, item)
	}
	return items, nil
}

func validate(item models.PyqItem) error {
	switch {
	case item.Year <= 0:
		return errors.New("year is required")
	case item.Branch == "":
		return errors.New("branch is required")
	case item.PaperCode == "":
		return errors.New("paperCode is required")
	case item.OfficialPaperURL == "":
		return errors.New("officialPaperUrl is required")
	}
	return nil
}
