package stremio

import (
	"strings"

	"canonstream/models"
	"canonstream/utils/nameparse"
)

// resolvedFields carries the scalar and derived values a parser settled on
// before assembly.
type resolvedFields struct {
	filename   string
	size       int64
	infoHash   string
	streamType models.StreamType
	seeders    *int
	age        string
	provider   *models.ProviderInfo
	indexer    string
	durationMS int64
	personal   bool
}

// assembleStream merges tokenizer output, the raw record and the resolved
// fields into the canonical record. It is a total function of its inputs:
// no validation, never fails.
func assembleStream(addon AddonIdentity, parsed *nameparse.ParsedFile, raw *models.RawStream, fields resolvedFields) *models.CanonicalStream {
	if parsed == nil {
		parsed = &nameparse.ParsedFile{}
	}

	out := &models.CanonicalStream{
		ParsedFile:  *parsed,
		Filename:    fields.filename,
		SizeBytes:   fields.size,
		URL:         raw.URL,
		ExternalURL: raw.ExternalURL,
		Type:        fields.streamType,
		Provider:    fields.provider,
		Indexer:     fields.indexer,
		DurationMS:  fields.durationMS,
		Personal:    fields.personal,
		Addon:       models.AddonInfo{ID: addon.ID, Name: addon.Name},
	}

	switch fields.streamType {
	case models.StreamTypeTorrent:
		out.Torrent.Seeders = fields.seeders
	case models.StreamTypeUsenet:
		out.Usenet.Age = fields.age
	}
	out.Torrent.FileIdx = raw.FileIdx
	out.Torrent.Sources = raw.Sources

	// A usenet record must not carry a torrent identity: when an age is
	// present the info-hash is discarded outright.
	if out.Usenet.Age == "" && fields.infoHash != "" {
		out.InfoHash = strings.ToLower(fields.infoHash)
		out.Torrent.InfoHash = out.InfoHash
	}

	out.Stream.Subtitles = raw.Subtitles
	if raw.Hints != nil {
		hints := &models.CanonicalBehaviorHints{
			CountryWhitelist: raw.Hints.CountryWhitelist,
			NotWebReady:      raw.Hints.NotWebReady,
			VideoHash:        raw.Hints.VideoHash,
		}
		if ph := raw.Hints.ProxyHeaders; ph != nil && (len(ph.Request) > 0 || len(ph.Response) > 0) {
			hints.ProxyHeaders = ph
		}
		out.Stream.BehaviorHints = hints
	}

	return out
}
