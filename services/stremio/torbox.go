package stremio

import (
	"strconv"
	"strings"

	"canonstream/models"
	"canonstream/utils/nameparse"
)

// TorBoxParser handles the TorBox addon's labeled description format: one
// "Label: value" field per line, with a final line combining the stream type
// and a pipe-separated seeders-or-age value ("Type: torrent | 120").
type TorBoxParser struct {
	addon    AddonIdentity
	tokenize nameparse.Func
}

func (p *TorBoxParser) Parse(raw *models.RawStream) *models.CanonicalStream {
	if raw == nil {
		return nil
	}

	description := raw.Description
	if description == "" {
		description = raw.Title
	}

	fields, typeValue, typeExtra := splitLabeledDescription(description)

	// An explicit, already-valid type on the stream is trusted over the
	// description; this keeps a second parse of the same record from
	// reinterpreting the type line.
	streamType := normalizeStreamType(raw.Type)
	if streamType == "" {
		streamType = normalizeStreamType(typeValue)
	}
	if streamType == "" {
		streamType = models.StreamTypeTorrent
	}

	// Streams from the user's own TorBox library surface as "Your Media".
	personal := strings.Contains(raw.Name, "Your Media")

	filename := ""
	if raw.Hints != nil && raw.Hints.Filename != "" {
		filename = raw.Hints.Filename
	} else if typeExtra != "" {
		filename = typeExtra
	}
	parseTarget := filename
	if parseTarget == "" {
		parseTarget = strings.ReplaceAll(description, "\n", " ")
	}
	parsed := p.tokenize(parseTarget)

	languages := make([]string, 0, len(parsed.Languages))
	for _, lang := range parsed.Languages {
		languages = appendLanguage(languages, lang)
	}
	explicitLang := raw.Language
	if explicitLang == "" {
		explicitLang = fields["language"]
	}
	if explicitLang != "" {
		languages = appendLanguage(languages, explicitLang)
	}
	parsed.Languages = languages

	// TorBox reports decimal units, so description sizes use base 1000.
	size := coerceInt64(raw.Size)
	if size == 0 && raw.Hints != nil {
		size = coerceInt64(raw.Hints.VideoSize)
	}
	if size == 0 {
		size = extractSizeBytes(description, decimalBase)
	}

	var seeders *int
	var age string
	switch streamType {
	case models.StreamTypeTorrent:
		if value, ok := coerceInt(raw.Seeders); ok {
			seeders = &value
		} else if typeExtra != "" {
			if value, err := strconv.Atoi(typeExtra); err == nil {
				seeders = &value
			}
		}
	case models.StreamTypeUsenet:
		// Age stays the literal upstream string ("5d", "2w"), never a number.
		age = typeExtra
	}

	infoHash := strings.TrimSpace(raw.Hash)
	if infoHash == "" {
		infoHash = strings.TrimSpace(raw.InfoHash)
	}
	if infoHash == "" {
		infoHash = extractInfoHash(raw.URL)
	}

	if !hasPlayableIdentity(raw, infoHash) {
		return nil
	}

	provider := extractProvider(raw.Name)
	if provider != nil && raw.IsCached != nil {
		// The typed cache field beats symbol inference.
		provider.Cached = raw.IsCached
	}

	return assembleStream(p.addon, parsed, raw, resolvedFields{
		filename:   filename,
		size:       size,
		infoHash:   infoHash,
		streamType: streamType,
		seeders:    seeders,
		age:        age,
		provider:   provider,
		indexer:    extractAfterMarker(description, indexerMarkers),
		durationMS: extractDurationMS(description),
		personal:   personal,
	})
}

// splitLabeledDescription splits a labeled description into its fields. Every
// line but the type line splits on the first colon; the type line splits on
// "|" with the left side declaring the type and the right side carrying the
// combined seeders-or-age value (possibly behind its own label).
func splitLabeledDescription(description string) (fields map[string]string, typeValue, typeExtra string) {
	fields = make(map[string]string)
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Type") {
			left, right, hasRight := strings.Cut(line, "|")
			if _, value, ok := strings.Cut(left, ":"); ok {
				typeValue = strings.TrimSpace(value)
			}
			if hasRight {
				typeExtra = strings.TrimSpace(right)
				if _, value, ok := strings.Cut(typeExtra, ":"); ok {
					typeExtra = strings.TrimSpace(value)
				}
			}
			continue
		}
		if label, value, ok := strings.Cut(line, ":"); ok {
			fields[strings.ToLower(strings.TrimSpace(label))] = strings.TrimSpace(value)
		}
	}
	return fields, typeValue, typeExtra
}
