package matcher

import "regexp"

// Version classifies a title as a special recording variant.
type Version struct {
	Live     bool
	Remix    bool
	Cover    bool
	Acoustic bool
}

var (
	livePattern     = regexp.MustCompile(`(?i)\b(live|concert|performance|unplugged|session)\b`)
	remixPattern    = regexp.MustCompile(`(?i)\b(remix|edit|flip|mashup|rework)\b`)
	coverPattern    = regexp.MustCompile(`(?i)\b(cover|tribute)\b|version by|performed by`)
	acousticPattern = regexp.MustCompile(`(?i)\b(acoustic|stripped|piano|unplugged)\b`)
)

// DetectVersion classifies a title via keyword sets. It is applied
// symmetrically to source and candidate titles; agreement on each flag
// contributes a fixed bonus in enhanced scoring.
func DetectVersion(title string) Version {
	return Version{
		Live:     livePattern.MatchString(title),
		Remix:    remixPattern.MatchString(title),
		Cover:    coverPattern.MatchString(title),
		Acoustic: acousticPattern.MatchString(title),
	}
}

// Agreement counts the flags on which two classifications agree, 0..4.
func (v Version) Agreement(other Version) int {
	count := 0
	if v.Live == other.Live {
		count++
	}
	if v.Remix == other.Remix {
		count++
	}
	if v.Cover == other.Cover {
		count++
	}
	if v.Acoustic == other.Acoustic {
		count++
	}
	return count
}
