package domain

// MediaTitle holds the localized titles AniList returns for a title.
// At least one of the three is present on a mapped MediaSummary.
type MediaTitle struct {
	Romaji  *string `json:"romaji,omitempty"`
	English *string `json:"english,omitempty"`
	Native  *string `json:"native,omitempty"`
}

// Display returns the preferred title: English, then romaji, then native.
func (t MediaTitle) Display() string {
	for _, candidate := range []*string{t.English, t.Romaji, t.Native} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return ""
}

func (t MediaTitle) IsEmpty() bool {
	return t.Display() == ""
}

type MediaFormat string

const (
	MediaFormatTV      MediaFormat = "TV"
	MediaFormatTVShort MediaFormat = "TV_SHORT"
	MediaFormatMovie   MediaFormat = "MOVIE"
	MediaFormatSpecial MediaFormat = "SPECIAL"
	MediaFormatOVA     MediaFormat = "OVA"
	MediaFormatONA     MediaFormat = "ONA"
	MediaFormatMusic   MediaFormat = "MUSIC"
)

func (f MediaFormat) String() string {
	return string(f)
}

// MediaSummary is one anime row of a search result page.
type MediaSummary struct {
	ID           int         `json:"id"`
	Title        MediaTitle  `json:"title"`
	CoverImage   string      `json:"cover_image"`
	Episodes     *int        `json:"episodes,omitempty"`
	AverageScore *int        `json:"average_score,omitempty"` // 0-100
	Format       MediaFormat `json:"format,omitempty"`
	SeasonYear   *int        `json:"season_year,omitempty"`
}

func (m MediaSummary) Key() int {
	return m.ID
}
