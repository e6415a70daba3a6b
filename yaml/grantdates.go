// Package yaml reads grant-date tables from YAML documents.
package yaml

import (
	"errors"
	"io"
	"time"

	"github.com/fwojciec/patentenrich"
	"gopkg.in/yaml.v3"
)

// LoadGrantDates reads a grant-date table. Two layouts are accepted: a
// mapping from patent number to date
//
//	US9391881B2: 2016-07-12
//
// or a sequence of template-style entries
//
//	- number: US9391881B2
//	  grant_date: 2016-07-12
//
// Identifiers are normalized. A malformed identifier or date yields EINVALID
// naming the offending line. An empty document yields an empty table.
func LoadGrantDates(r io.Reader) (patentenrich.GrantDates, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return patentenrich.GrantDates{}, nil
		}
		return nil, patentenrich.Errorf(patentenrich.EINVALID, "invalid grant-date table: %v", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	dates := make(patentenrich.GrantDates)
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if err := add(dates, root.Content[i], root.Content[i+1]); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var entry struct {
				Number    yaml.Node `yaml:"number"`
				GrantDate yaml.Node `yaml:"grant_date"`
			}
			if err := item.Decode(&entry); err != nil {
				return nil, patentenrich.Errorf(patentenrich.EINVALID, "line %d: %v", item.Line, err)
			}
			if entry.GrantDate.Value == "" {
				continue
			}
			if err := add(dates, &entry.Number, &entry.GrantDate); err != nil {
				return nil, err
			}
		}
	default:
		return nil, patentenrich.Errorf(patentenrich.EINVALID, "line %d: grant-date table must be a mapping or a sequence", root.Line)
	}

	return dates, nil
}

func add(dates patentenrich.GrantDates, number, date *yaml.Node) error {
	id, err := patentenrich.ParsePatentID(number.Value)
	if err != nil {
		return patentenrich.Errorf(patentenrich.EINVALID, "line %d: %s", number.Line, patentenrich.ErrorMessage(err))
	}
	if _, err := time.Parse(patentenrich.DateLayout, date.Value); err != nil {
		return patentenrich.Errorf(patentenrich.EINVALID, "line %d: invalid grant date %q for %s", date.Line, date.Value, id)
	}
	dates[id] = date.Value
	return nil
}
