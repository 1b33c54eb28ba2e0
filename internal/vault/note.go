package vault

import "time"

// Time aliases time.Time; kept local so Topic/Note signatures read naturally.
type Time = time.Time

// Flavor is the closed classification of a note, resolved once at scan time.
// Banner prefixing and playlist inclusion both consume this tag rather than
// re-testing path strings.
type Flavor string

const (
	FlavorKnowledge Flavor = "knowledge"
	FlavorLecture   Flavor = "lecture"
	FlavorAppendix  Flavor = "appendix"
)

// BannerPrefix returns the canonical-name prefix recorded in metadata banners.
func (f Flavor) BannerPrefix() string {
	switch f {
	case FlavorLecture:
		return "LEC-"
	case FlavorAppendix:
		return "APP-"
	default:
		return "KN-"
	}
}

// AppendixMarker tags topics whose notes carry the appendix flavor.
const AppendixMarker = "Appendix"

// Note is one authored text document. Headings are not stored here; they are
// recomputed from content each run.
type Note struct {
	Title      string // filename without extension
	Filename   string
	Path       string
	Created    Time
	Modified   Time
	Flavor     Flavor
	IsHomepage bool
}

func classify(topic *Topic) Flavor {
	if ContainsMarker(topic.Name, AppendixMarker) {
		return FlavorAppendix
	}
	if topic.Zone == ZoneLecture {
		return FlavorLecture
	}
	return FlavorKnowledge
}
