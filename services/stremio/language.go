package stremio

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeLanguage canonicalizes a free-text language signal. "multi audio"
// in any casing collapses to "Multi"; everything else is title-cased word by
// word and rejoined with single spaces.
func NormalizeLanguage(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return ""
	}
	if strings.EqualFold(value, "multi audio") {
		return "Multi"
	}
	// cases.Caser carries transform state and is not safe for concurrent
	// use; batches parse in parallel, so each call builds its own.
	return cases.Title(language.Und).String(value)
}

// appendLanguage appends the normalized value to langs unless it is empty,
// already present, or the "Unknown" placeholder.
func appendLanguage(langs []string, value string) []string {
	normalized := NormalizeLanguage(value)
	if normalized == "" || normalized == "Unknown" {
		return langs
	}
	for _, existing := range langs {
		if existing == normalized {
			return langs
		}
	}
	return append(langs, normalized)
}

// flagLanguages maps regional-indicator flag sequences to language names.
// Lookups that miss are discarded by the callers.
var flagLanguages = map[string]string{
	"🇬🇧": "English",
	"🇺🇸": "English",
	"🇦🇺": "English",
	"🇩🇪": "German",
	"🇫🇷": "French",
	"🇪🇸": "Spanish",
	"🇲🇽": "Latino",
	"🇮🇹": "Italian",
	"🇷🇺": "Russian",
	"🇯🇵": "Japanese",
	"🇨🇳": "Chinese",
	"🇹🇼": "Chinese",
	"🇰🇷": "Korean",
	"🇵🇹": "Portuguese",
	"🇧🇷": "Portuguese",
	"🇳🇱": "Dutch",
	"🇵🇱": "Polish",
	"🇸🇪": "Swedish",
	"🇳🇴": "Norwegian",
	"🇩🇰": "Danish",
	"🇫🇮": "Finnish",
	"🇨🇿": "Czech",
	"🇭🇺": "Hungarian",
	"🇹🇷": "Turkish",
	"🇬🇷": "Greek",
	"🇮🇳": "Hindi",
	"🇸🇦": "Arabic",
	"🇮🇱": "Hebrew",
	"🇹🇭": "Thai",
	"🇻🇳": "Vietnamese",
	"🇺🇦": "Ukrainian",
	"🇷🇴": "Romanian",
	"🇧🇬": "Bulgarian",
	"🇷🇸": "Serbian",
	"🇭🇷": "Croatian",
	"🇸🇰": "Slovak",
	"🇸🇮": "Slovenian",
	"🇮🇩": "Indonesian",
	"🇲🇾": "Malay",
	"🇵🇭": "Filipino",
	"🌎": "Multi",
}

// codeLanguages maps bare two-letter country codes to language names.
// GB is deliberately absent: it collides with the gigabyte size unit.
var codeLanguages = map[string]string{
	"EN": "English",
	"UK": "English",
	"US": "English",
	"DE": "German",
	"FR": "French",
	"ES": "Spanish",
	"MX": "Latino",
	"IT": "Italian",
	"RU": "Russian",
	"JP": "Japanese",
	"CN": "Chinese",
	"TW": "Chinese",
	"KR": "Korean",
	"PT": "Portuguese",
	"BR": "Portuguese",
	"NL": "Dutch",
	"PL": "Polish",
	"SE": "Swedish",
	"NO": "Norwegian",
	"DK": "Danish",
	"FI": "Finnish",
	"CZ": "Czech",
	"HU": "Hungarian",
	"TR": "Turkish",
	"GR": "Greek",
	"IN": "Hindi",
	"SA": "Arabic",
	"IL": "Hebrew",
	"TH": "Thai",
	"VN": "Vietnamese",
	"UA": "Ukrainian",
	"RO": "Romanian",
	"BG": "Bulgarian",
	"RS": "Serbian",
	"HR": "Croatian",
	"SK": "Slovak",
	"SI": "Slovenian",
	"ID": "Indonesian",
	"MY": "Malay",
	"PH": "Filipino",
}

// descriptionLanguages collects the union of flag and country-code signals in
// text, mapped through the lookup tables and folded into langs.
func descriptionLanguages(langs []string, text string) []string {
	for _, flag := range extractFlags(text) {
		if name, ok := flagLanguages[flag]; ok {
			langs = appendLanguage(langs, name)
		}
	}
	for _, code := range extractCountryCodes(text) {
		if name, ok := codeLanguages[code]; ok {
			langs = appendLanguage(langs, name)
		}
	}
	return langs
}
