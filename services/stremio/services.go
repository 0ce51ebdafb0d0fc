package stremio

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"canonstream/models"
)

type serviceDef struct {
	id      string
	aliases []string
}

// knownServices lists the debrid/indexing services recognized in stream
// names. Iteration is last-write-wins: when several aliases match, the later
// table entry takes the stream. Several services share short aliases, so the
// order here is load-bearing.
var knownServices = []serviceDef{
	{id: "realdebrid", aliases: []string{"Real Debrid", "Real-Debrid", "RealDebrid", "RD"}},
	{id: "alldebrid", aliases: []string{"All Debrid", "All-Debrid", "AllDebrid", "AD"}},
	{id: "premiumize", aliases: []string{"Premiumize", "PM"}},
	{id: "debridlink", aliases: []string{"Debrid Link", "Debrid-Link", "DebridLink", "DL"}},
	{id: "torbox", aliases: []string{"TorBox", "TRB", "TB"}},
	{id: "offcloud", aliases: []string{"Offcloud", "OC"}},
	{id: "putio", aliases: []string{"Put.io", "Putio"}},
	{id: "easynews", aliases: []string{"Easynews", "EN"}},
	{id: "easydebrid", aliases: []string{"EasyDebrid", "ED"}},
	{id: "pikpak", aliases: []string{"PikPak", "PKP"}},
	{id: "seedr", aliases: []string{"Seedr"}},
}

var (
	serviceAliasRegexes = buildAliasRegexes(knownServices)
	webDLRegex          = regexp.MustCompile(`(?i)web[-_. ]?dl`)
)

func buildAliasRegexes(defs []serviceDef) []*regexp.Regexp {
	regexes := make([]*regexp.Regexp, len(defs))
	for i, def := range defs {
		quoted := make([]string, len(def.aliases))
		for j, alias := range def.aliases {
			quoted[j] = regexp.QuoteMeta(alias)
		}
		regexes[i] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return regexes
}

// extractProvider scans a stream name for a known service alias and reads the
// cache state from the surrounding symbols. Alias matching runs on an
// ASCII-folded, web-dl-stripped variant so "WEB-DL" can never satisfy the
// "DL" alias; cache symbols are read from the original string.
func extractProvider(name string) *models.ProviderInfo {
	if name == "" {
		return nil
	}
	stripped := webDLRegex.ReplaceAllString(unidecode.Unidecode(name), "")

	var provider *models.ProviderInfo
	for i, def := range knownServices {
		if !serviceAliasRegexes[i].MatchString(stripped) {
			continue
		}
		provider = &models.ProviderInfo{ID: def.id, Cached: detectCacheState(name)}
	}
	return provider
}

// detectCacheState reads the cache symbols a name may carry: nil when neither
// set is present. The literal checks are case-sensitive so "UNCACHED" cannot
// satisfy the cached branch.
func detectCacheState(name string) *bool {
	switch {
	case strings.Contains(name, "+"),
		strings.Contains(name, "⚡"),
		strings.Contains(name, "🚀"),
		strings.Contains(name, "cached"):
		return boolPtr(true)
	case strings.Contains(name, "⏳"),
		strings.Contains(name, "download"),
		strings.Contains(name, "UNCACHED"):
		return boolPtr(false)
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
