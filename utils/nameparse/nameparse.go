// Package nameparse tokenizes release display names into structured fields.
// The rest of the application consumes it through the Func contract so the
// tokenizer stays a swappable collaborator.
package nameparse

import (
	"strings"

	"github.com/moistari/rls"
)

// ParsedFile is the tokenizer output for a single display name. Languages is
// an ordered sequence the caller may append to; it never contains duplicates.
type ParsedFile struct {
	Title      string   `json:"title,omitempty"`
	Year       int      `json:"year,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Quality    string   `json:"quality,omitempty"`
	Codec      string   `json:"codec,omitempty"`
	Audio      []string `json:"audio,omitempty"`
	Channels   string   `json:"channels,omitempty"`
	HDR        []string `json:"hdr,omitempty"`
	Group      string   `json:"group,omitempty"`
	Seasons    []int    `json:"seasons,omitempty"`
	Episodes   []int    `json:"episodes,omitempty"`
	Languages  []string `json:"languages,omitempty"`
}

// Func is the tokenizer contract consumed by the stream parsers.
type Func func(name string) *ParsedFile

var _ Func = Parse

// Parse tokenizes a release name with moistari/rls. It never fails: an empty
// or unparseable name yields an empty ParsedFile.
func Parse(name string) *ParsedFile {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ParsedFile{}
	}

	release := rls.ParseString(name)
	parsed := &ParsedFile{
		Title:      release.Title,
		Year:       release.Year,
		Resolution: release.Resolution,
		Quality:    release.Source,
		Channels:   release.Channels,
		Group:      release.Group,
	}
	if len(release.Codec) > 0 {
		parsed.Codec = release.Codec[0]
	}
	parsed.Audio = append(parsed.Audio, release.Audio...)
	parsed.HDR = append(parsed.HDR, release.HDR...)
	if release.Series > 0 {
		parsed.Seasons = []int{release.Series}
	}
	if release.Episode > 0 {
		parsed.Episodes = []int{release.Episode}
	}
	parsed.Languages = append(parsed.Languages, release.Language...)
	return parsed
}
