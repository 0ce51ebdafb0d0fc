package models

import "canonstream/utils/nameparse"

// StreamType discriminates how a canonical stream is delivered. Exactly one
// of torrent.seeders and usenet.age carries meaning, gated by this value.
type StreamType string

const (
	StreamTypeTorrent StreamType = "torrent"
	StreamTypeUsenet  StreamType = "usenet"
	StreamTypeWeb     StreamType = "web"
)

// RawStream is a single untrusted stream record as returned by a Stremio
// addon. Field presence varies wildly between addons: some encode metadata as
// typed properties, others bury everything in the description text. Numeric
// extras may arrive as JSON numbers or strings, so those stay loosely typed
// until coerced.
type RawStream struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	URL         string            `json:"url,omitempty"`
	ExternalURL string            `json:"externalUrl,omitempty"`
	InfoHash    string            `json:"infoHash,omitempty"`
	FileIdx     *int              `json:"fileIdx,omitempty"`
	Sources     []string          `json:"sources,omitempty"`
	Subtitles   []Subtitle        `json:"subtitles,omitempty"`
	Hints       *RawBehaviorHints `json:"behaviorHints,omitempty"`

	// Addon-specific extras seen in the wild.
	Filename     string      `json:"filename,omitempty"`
	TorrentTitle string      `json:"torrentTitle,omitempty"`
	Size         interface{} `json:"size,omitempty"`
	SizeBytes    interface{} `json:"sizeBytes,omitempty"`
	TorrentSize  interface{} `json:"torrentSize,omitempty"`
	Seeders      interface{} `json:"seeders,omitempty"`
	Duration     interface{} `json:"duration,omitempty"`
	IsCached     *bool       `json:"is_cached,omitempty"`
	Language     string      `json:"language,omitempty"`
	Type         string      `json:"type,omitempty"`
	Hash         string      `json:"hash,omitempty"`
	Magnet       string      `json:"magnet,omitempty"`
	NZB          string      `json:"nzb,omitempty"`
}

// RawBehaviorHints mirrors the Stremio behaviorHints object.
type RawBehaviorHints struct {
	Filename         string        `json:"filename,omitempty"`
	VideoSize        interface{}   `json:"videoSize,omitempty"`
	VideoHash        string        `json:"videoHash,omitempty"`
	BingeGroup       string        `json:"bingeGroup,omitempty"`
	CountryWhitelist []string      `json:"countryWhitelist,omitempty"`
	NotWebReady      bool          `json:"notWebReady,omitempty"`
	ProxyHeaders     *ProxyHeaders `json:"proxyHeaders,omitempty"`
}

// ProxyHeaders carries headers a player must attach when fetching the stream.
type ProxyHeaders struct {
	Request  map[string]string `json:"request,omitempty"`
	Response map[string]string `json:"response,omitempty"`
}

// Subtitle is a Stremio subtitle reference passed through untouched.
type Subtitle struct {
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"`
	Lang string `json:"lang,omitempty"`
}

// CanonicalStream is the normalized, addon-agnostic record produced by the
// stream parsers. Torrent and Usenet sub-records are always present, even
// with all fields absent; InfoHash is omitted entirely when unknown.
type CanonicalStream struct {
	nameparse.ParsedFile

	Filename    string        `json:"filename,omitempty"`
	SizeBytes   int64         `json:"size,omitempty"`
	URL         string        `json:"url,omitempty"`
	ExternalURL string        `json:"externalUrl,omitempty"`
	InfoHash    string        `json:"_infoHash,omitempty"`
	Type        StreamType    `json:"type,omitempty"`
	Torrent     TorrentInfo   `json:"torrent"`
	Usenet      UsenetInfo    `json:"usenet"`
	Provider    *ProviderInfo `json:"provider,omitempty"`
	Indexer     string        `json:"indexers,omitempty"`
	DurationMS  int64         `json:"duration,omitempty"`
	Personal    bool          `json:"personal,omitempty"`
	Addon       AddonInfo     `json:"addon"`
	Stream      StreamDetails `json:"stream"`
}

// TorrentInfo groups the swarm-side fields of a canonical stream.
type TorrentInfo struct {
	InfoHash string   `json:"infoHash,omitempty"`
	FileIdx  *int     `json:"fileIdx,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	Seeders  *int     `json:"seeders,omitempty"`
}

// UsenetInfo groups the usenet-side fields of a canonical stream. Age is the
// elapsed-time-since-posting descriptor, kept as the literal upstream string.
type UsenetInfo struct {
	Age string `json:"age,omitempty"`
}

// ProviderInfo identifies the debrid/indexing service a stream came from.
// Cached is nil when the cache state could not be determined.
type ProviderInfo struct {
	ID     string `json:"id"`
	Cached *bool  `json:"cached,omitempty"`
}

// AddonInfo is the static identity of the addon that produced a stream.
type AddonInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StreamDetails passes through the playback-relevant parts of the raw record.
type StreamDetails struct {
	Subtitles     []Subtitle              `json:"subtitles,omitempty"`
	BehaviorHints *CanonicalBehaviorHints `json:"behaviorHints,omitempty"`
}

// CanonicalBehaviorHints is the selected behaviorHints passthrough.
// ProxyHeaders is only set when at least one header map is non-empty.
type CanonicalBehaviorHints struct {
	CountryWhitelist []string      `json:"countryWhitelist,omitempty"`
	NotWebReady      bool          `json:"notWebReady,omitempty"`
	VideoHash        string        `json:"videoHash,omitempty"`
	ProxyHeaders     *ProxyHeaders `json:"proxyHeaders,omitempty"`
}
