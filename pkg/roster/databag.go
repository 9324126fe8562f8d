package roster

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
)

// Committee groups members for one section of the team page.
type Committee struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
	Members Roster `json:"members"`
}

// Databag is the full JSON document consumed by the website generator.
// It is the only persisted entity: read as previous state and written as
// the new state by every run.
type Databag struct {
	TeamImages   string      `json:"team_images"`
	DefaultImage string      `json:"default_image"`
	Types        []Committee `json:"types"`
}

// Flatten returns all members across committees in display order.
// Members persisted before identity derivation existed get their identity
// derived from the stored name.
func (d *Databag) Flatten() Roster {
	var all Roster
	for _, c := range d.Types {
		for _, m := range c.Members {
			if m.Identity == "" {
				m.Identity = Identity(m.Name)
			}
			if m.Committee == "" {
				m.Committee = c.Name
			}
			all = append(all, m)
		}
	}
	return all
}

// Group builds the committee sections from a flat roster, preserving
// roster order within each committee. Committees named in order come
// first in that order; the rest follow in first-seen order.
func Group(members Roster, order []string) []Committee {
	byName := make(map[string]*Committee)
	var seen []string

	for _, m := range members {
		name := m.Committee
		if name == "" {
			name = DefaultCommittee
		}
		c, ok := byName[name]
		if !ok {
			c = &Committee{Name: name}
			byName[name] = c
			seen = append(seen, name)
		}
		c.Members = append(c.Members, m)
	}

	var committees []Committee
	for _, name := range order {
		if c, ok := byName[name]; ok {
			committees = append(committees, *c)
			delete(byName, name)
		}
	}
	for _, name := range seen {
		if c, ok := byName[name]; ok {
			committees = append(committees, *c)
		}
	}
	return committees
}

// LoadDatabag reads the previously published databag. A missing file is a
// first run and yields an empty databag. Anything unparseable is a fatal
// StateError: merging against unknown prior state risks silent data loss.
func LoadDatabag(path string) (*Databag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Databag{}, nil
		}
		return nil, &errors.StateError{Path: path, Message: "cannot read previous state", Err: err}
	}

	var bag Databag
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, &errors.StateError{Path: path, Message: err.Error(), Err: err}
	}

	seen := make(map[string]bool)
	for _, m := range bag.Flatten() {
		if seen[m.Identity] {
			return nil, &errors.StateError{Path: path, Message: "duplicate identity " + m.Identity + " in previous state"}
		}
		seen[m.Identity] = true
	}

	return &bag, nil
}

// SaveDatabag serializes the databag to path with stable indentation.
func SaveDatabag(path string, bag *Databag) error {
	data, err := json.MarshalIndent(bag, "", "    ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
