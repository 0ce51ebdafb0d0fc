package stremio

import (
	"regexp"
	"strconv"
	"strings"

	"canonstream/models"
	"canonstream/utils/nameparse"
)

// AddonIdentity is the static identity folded into every record a parser
// produces.
type AddonIdentity struct {
	ID   string
	Name string
}

// StreamParser normalizes one raw addon stream into the canonical shape.
// A nil result means the record carried nothing worth keeping. Parsers never
// fail: absent signals degrade to zero values.
type StreamParser interface {
	Parse(raw *models.RawStream) *models.CanonicalStream
}

// Description formats with a dedicated parser. Anything else goes through
// the generic pipeline.
const FormatTorBox = "torbox"

// NewParser selects the implementation for an addon by service identity.
// Selection happens here, at construction time, never by inspecting records
// at runtime.
func NewParser(addon AddonIdentity, format string, tokenize nameparse.Func) StreamParser {
	if tokenize == nil {
		tokenize = nameparse.Parse
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatTorBox:
		return &TorBoxParser{addon: addon, tokenize: tokenize}
	default:
		return &GenericParser{addon: addon, tokenize: tokenize}
	}
}

var (
	seederMarkers = []string{"👥", "👤"}
	// The gear and cloud markers arrive both with and without the emoji
	// variation selector, so both spellings are registered. Selector forms
	// come first so they win the tie at the same offset.
	indexerMarkers = []string{"🌐", "⚙️", "⚙", "🔗", "🔎", "☁️", "☁"}

	seasonEpisodeRegex = regexp.MustCompile(`(?i)\bS\d{1,2}[ ._-]?E\d{1,3}\b|\b\d{1,2}x\d{1,3}\b`)
	yearTokenRegex     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// GenericParser is the default normalization pipeline for addons whose
// records only loosely follow the common Stremio shape: metadata may live in
// typed properties, the display name, or emoji-delimited description lines.
type GenericParser struct {
	addon    AddonIdentity
	tokenize nameparse.Func
}

func (p *GenericParser) Parse(raw *models.RawStream) *models.CanonicalStream {
	if raw == nil {
		return nil
	}

	description := raw.Description
	if description == "" {
		description = raw.Title
	}

	filename := resolveGenericFilename(raw, description)

	// A generic, non-descriptive filename carries less signal than a
	// well-formatted description line, so when the filename has neither a
	// season/episode nor a year token the whole description is tokenized
	// instead.
	parseTarget := filename
	if description != "" && !seasonEpisodeRegex.MatchString(filename) && !yearTokenRegex.MatchString(filename) {
		parseTarget = strings.ReplaceAll(description, "\n", " ")
	}
	parsed := p.tokenize(parseTarget)

	languages := make([]string, 0, len(parsed.Languages))
	for _, lang := range parsed.Languages {
		languages = appendLanguage(languages, lang)
	}
	languages = descriptionLanguages(languages, description)
	parsed.Languages = languages

	var size int64
	if raw.Hints != nil {
		size = coerceInt64(raw.Hints.VideoSize)
	}
	for _, src := range []interface{}{raw.Size, raw.SizeBytes, raw.TorrentSize} {
		if size != 0 {
			break
		}
		size = coerceInt64(src)
	}
	if size == 0 {
		size = extractSizeBytes(description, binaryBase)
	}
	if size == 0 {
		size = extractSizeBytes(raw.Name, binaryBase)
	}

	var seeders *int
	if value := extractAfterMarker(description, seederMarkers); value != "" {
		if count, err := strconv.Atoi(value); err == nil {
			seeders = &count
		}
	}

	durationMS := coerceInt64(raw.Duration)
	if durationMS == 0 {
		durationMS = extractDurationMS(description)
	}

	infoHash := strings.TrimSpace(raw.InfoHash)
	if infoHash == "" {
		infoHash = extractInfoHash(raw.URL)
	}

	if !hasPlayableIdentity(raw, infoHash) {
		return nil
	}

	provider := extractProvider(raw.Name)
	if infoHash != "" {
		// Swarm results are never attributed to a debrid provider.
		provider = nil
	}

	streamType := normalizeStreamType(raw.Type)
	if streamType == "" {
		if infoHash != "" {
			streamType = models.StreamTypeTorrent
		} else {
			streamType = models.StreamTypeWeb
		}
	}

	return assembleStream(p.addon, parsed, raw, resolvedFields{
		filename:   filename,
		size:       size,
		infoHash:   infoHash,
		streamType: streamType,
		seeders:    seeders,
		provider:   provider,
		indexer:    extractAfterMarker(description, indexerMarkers),
		durationMS: durationMS,
	})
}

// resolveGenericFilename picks the best-known display name: the filename
// hint, then the torrent title, then the bare filename field, then the first
// description line that looks like a release name (season/episode or year
// token), then the first line outright.
func resolveGenericFilename(raw *models.RawStream, description string) string {
	if raw.Hints != nil && raw.Hints.Filename != "" {
		return raw.Hints.Filename
	}
	if raw.TorrentTitle != "" {
		return raw.TorrentTitle
	}
	if raw.Filename != "" {
		return raw.Filename
	}
	if description == "" {
		return ""
	}
	lines := strings.Split(description, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seasonEpisodeRegex.MatchString(line) || yearTokenRegex.MatchString(line) {
			return line
		}
	}
	return strings.TrimSpace(lines[0])
}

// hasPlayableIdentity reports whether the record carries anything a player
// could act on. A record with none yields no canonical record at all rather
// than a placeholder.
func hasPlayableIdentity(raw *models.RawStream, infoHash string) bool {
	return raw.URL != "" || raw.ExternalURL != "" || raw.Magnet != "" || raw.NZB != "" || infoHash != ""
}

func normalizeStreamType(value string) models.StreamType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "torrent":
		return models.StreamTypeTorrent
	case "usenet":
		return models.StreamTypeUsenet
	case "web":
		return models.StreamTypeWeb
	}
	return ""
}
