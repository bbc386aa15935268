// Package match cross-references resolved deals against the flat-file
// reference tables: exact key match for the insurance extract, order-id
// prefix then scored address similarity for the payment extract. Free-text
// postal addresses across independently maintained spreadsheets never align
// character for character, so exact comparison is only the first stage.
package match

import (
	"regexp"
	"strings"
)

var zip4Re = regexp.MustCompile(`\b(\d{5})-\d{4}\b`)
var zip5Re = regexp.MustCompile(`^\d{5}$`)
var digitsRe = regexp.MustCompile(`^\d+$`)
var punctRe = regexp.MustCompile(`[.,;#]`)

// Abbreviation tables collapse the common spelled-out forms to the USPS
// short forms before tokenization. Tuned against one servicer's extracts;
// extend per data source.
var directionAbbrev = map[string]string{
	"north": "n", "south": "s", "east": "e", "west": "w",
	"northeast": "ne", "northwest": "nw", "southeast": "se", "southwest": "sw",
}

var suffixAbbrev = map[string]string{
	"street": "st", "avenue": "ave", "boulevard": "blvd", "drive": "dr",
	"lane": "ln", "road": "rd", "court": "ct", "circle": "cir",
	"place": "pl", "terrace": "ter", "highway": "hwy", "parkway": "pkwy",
	"trail": "trl", "crossing": "xing", "square": "sq", "loop": "loop",
	"suite": "ste", "apartment": "apt", "unit": "unit",
}

var stateAbbrev = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct", "delaware": "de",
	"florida": "fl", "georgia": "ga", "hawaii": "hi", "idaho": "id",
	"illinois": "il", "indiana": "in", "iowa": "ia", "kansas": "ks",
	"kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn",
	"mississippi": "ms", "missouri": "mo", "montana": "mt", "nebraska": "ne",
	"nevada": "nv", "ohio": "oh", "oklahoma": "ok", "oregon": "or",
	"pennsylvania": "pa", "tennessee": "tn", "texas": "tx", "utah": "ut",
	"vermont": "vt", "virginia": "va", "washington": "wa", "wisconsin": "wi",
	"wyoming": "wy",
}

// Address is the normalized form of a free-text postal address.
type Address struct {
	Tokens      []string
	TokenSet    map[string]struct{}
	ZIP5        string
	HouseNumber string
}

// NormalizeAddress strips ZIP+4 suffixes to ZIP5, lower-cases, collapses
// directional words, state names and street-suffix words to their standard
// abbreviations, and tokenizes on whitespace. The leading all-digit token is
// taken as the house number; the first five-digit token as the ZIP5.
func NormalizeAddress(raw string) Address {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = zip4Re.ReplaceAllString(s, "$1")
	s = punctRe.ReplaceAllString(s, " ")

	addr := Address{TokenSet: make(map[string]struct{})}
	for i, tok := range strings.Fields(s) {
		if v, ok := directionAbbrev[tok]; ok {
			tok = v
		} else if v, ok := suffixAbbrev[tok]; ok {
			tok = v
		} else if v, ok := stateAbbrev[tok]; ok {
			tok = v
		}

		if i == 0 && digitsRe.MatchString(tok) {
			addr.HouseNumber = tok
		}
		if addr.ZIP5 == "" && zip5Re.MatchString(tok) && tok != addr.HouseNumber {
			addr.ZIP5 = tok
		}

		addr.Tokens = append(addr.Tokens, tok)
		addr.TokenSet[tok] = struct{}{}
	}
	return addr
}

// Jaccard returns |a∩b| / |a∪b| over the two token sets. Empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
