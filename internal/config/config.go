// Package config loads teamroster settings from a YAML file and
// applies defaults for everything the file leaves out.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/sheet"
)

// Settings holds the declarative configuration for a roster run.
// Zero values are filled in by Load; a missing file yields pure defaults.
type Settings struct {
	// ColumnMapping maps logical field names to spreadsheet column headers.
	ColumnMapping map[string]string `yaml:"column_mapping"`

	// SortKey selects the member field rosters are ordered by.
	SortKey string `yaml:"sort_key"`

	// CommitteeOrder fixes the display order of committee groups.
	// Committees not listed sort after, alphabetically.
	CommitteeOrder []string `yaml:"committee_order"`

	// CommitteeComments annotates committee groups in the published databag.
	CommitteeComments map[string]string `yaml:"committee_comments"`

	// AllowDelete removes members missing from the sheet instead of
	// flagging them as stale.
	AllowDelete bool `yaml:"allow_delete"`

	ImageMaxBytes int64    `yaml:"image_max_bytes"`
	ImageTypes    []string `yaml:"image_types"`

	RetryCount int `yaml:"retry_count"`

	// Repository holds the publishing target.
	Repository Repository `yaml:"repository"`

	// Paths inside the target repository.
	TeamImagesDir string `yaml:"team_images_dir"`
	DefaultImage  string `yaml:"default_image"`
	DatabagPath   string `yaml:"databag_path"`
}

// Repository identifies the git repository the roster is published to.
type Repository struct {
	URL    string `yaml:"url"`
	Owner  string `yaml:"owner"`
	Name   string `yaml:"name"`
	Branch string `yaml:"branch"`
	Base   string `yaml:"base"`
}

// Defaults returns the built-in settings used when no config file exists.
func Defaults() *Settings {
	return &Settings{
		ColumnMapping: map[string]string{
			sheet.FieldName:      "Name",
			sheet.FieldCommittee: "Committee",
			sheet.FieldConsent:   "Consent",
			sheet.FieldChair:     "Chair",
			sheet.FieldGitHub:    "GitHub",
			sheet.FieldLinkedIn:  "LinkedIn",
			sheet.FieldWebsite:   "Website",
			sheet.FieldTwitter:   "Twitter",
			sheet.FieldBluesky:   "Bluesky",
			sheet.FieldMastodon:  "Mastodon",
			sheet.FieldImageURL:  "Image",
		},
		SortKey:       "name",
		ImageMaxBytes: constants.DefaultImageMaxBytes,
		RetryCount:    constants.MaxRetries,
		Repository: Repository{
			Branch: "team-page-update",
			Base:   "main",
		},
		TeamImagesDir: "static/images/team",
		DefaultImage:  "/images/team/placeholder.png",
		DatabagPath:   "databags/team.json",
	}
}

// Load reads settings from path. A missing file is not an error; the
// defaults are returned so a bare checkout still works.
func Load(path string) (*Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, &errors.ConfigError{
			Component: "settings",
			Message:   "invalid YAML in " + path,
			Err:       err,
		}
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyDefaults restores built-in values for fields the file zeroed out.
func (s *Settings) applyDefaults() {
	d := Defaults()
	if len(s.ColumnMapping) == 0 {
		s.ColumnMapping = d.ColumnMapping
	}
	if s.SortKey == "" {
		s.SortKey = d.SortKey
	}
	if s.ImageMaxBytes <= 0 {
		s.ImageMaxBytes = d.ImageMaxBytes
	}
	if s.RetryCount <= 0 {
		s.RetryCount = d.RetryCount
	}
	if s.Repository.Branch == "" {
		s.Repository.Branch = d.Repository.Branch
	}
	if s.Repository.Base == "" {
		s.Repository.Base = d.Repository.Base
	}
	if s.TeamImagesDir == "" {
		s.TeamImagesDir = d.TeamImagesDir
	}
	if s.DefaultImage == "" {
		s.DefaultImage = d.DefaultImage
	}
	if s.DatabagPath == "" {
		s.DatabagPath = d.DatabagPath
	}
}

// Validate rejects settings that would make a run fail halfway through.
func (s *Settings) Validate() error {
	switch s.SortKey {
	case "name", "identity":
	default:
		return &errors.ConfigError{
			Component: "settings",
			Message:   "sort_key must be \"name\" or \"identity\", got " + s.SortKey,
		}
	}
	if s.Repository.URL != "" && (s.Repository.Owner == "" || s.Repository.Name == "") {
		return &errors.ConfigError{
			Component: "settings",
			Message:   "repository.owner and repository.name are required when repository.url is set",
		}
	}
	return nil
}
