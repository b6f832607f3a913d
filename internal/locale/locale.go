// Package locale formats human readable day labels.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Default is the tag used when none is configured.
const Default = "en"

type names struct {
	weekdays      [7]string // Sunday first, matching time.Weekday
	weekdaysShort [7]string // Monday first, matching calendar columns
	months        [12]string
	today         string
}

var catalog = []names{
	{
		weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		weekdaysShort: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		months:        [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		today:         "Today",
	},
	{
		weekdays:      [7]string{"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"},
		weekdaysShort: [7]string{"Ma", "Di", "Wo", "Do", "Vr", "Za", "Zo"},
		months:        [12]string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"},
		today:         "Vandaag",
	},
}

// supported must stay index-aligned with catalog.
var supported = []language.Tag{language.English, language.Dutch}

var matcher = language.NewMatcher(supported)

// Labeler formats day labels for one language.
type Labeler struct {
	tag   language.Tag
	names names
}

// New returns a Labeler for the closest supported language to tag.
// Unknown or malformed tags fall back to English.
func New(tag string) *Labeler {
	parsed, err := language.Parse(tag)
	if err != nil {
		return &Labeler{tag: language.English, names: catalog[0]}
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		idx = 0
	}
	return &Labeler{tag: supported[idx], names: catalog[idx]}
}

// Tag returns the matched language tag, e.g. "en" or "nl".
func (l *Labeler) Tag() string {
	return l.tag.String()
}

// DayLabel formats a date as weekday, day number and abbreviated month,
// e.g. "Saturday 11 Jan" or "zaterdag 11 jan".
func (l *Labeler) DayLabel(date time.Time) string {
	return fmt.Sprintf("%s %d %s",
		l.names.weekdays[date.Weekday()],
		date.Day(),
		l.names.months[date.Month()-1],
	)
}

// Today returns the label used for the whole-duration fallback slot.
func (l *Labeler) Today() string {
	return l.names.today
}

// WeekdayShort returns the short column name for a weekday (0=Monday).
func (l *Labeler) WeekdayShort(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return l.names.weekdaysShort[weekday]
}
