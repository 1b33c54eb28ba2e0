package playlist

import "regexp"

// romanTail matches a name ending in "<anything> <roman numeral>".
var romanTail = regexp.MustCompile(`^(.*) ([IVXLCDM]+)$`)

// CompactRomanNumeral removes exactly one space immediately preceding a
// trailing roman-numeral token: "Chapter IV" becomes "ChapterIV". Names
// without such a tail are returned unchanged. The export collaborator's
// title lookup chokes on the space; everything else about the name is kept.
func CompactRomanNumeral(name string) string {
	m := romanTail.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return m[1] + m[2]
}
