package formatter

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"swissgeo/internal/models"
	"swissgeo/internal/query"
)

// DateLayout is the layout of dates in API responses
const DateLayout = "2006-01-02"

// ResultsFormatter turns query results into API views. Names are ordered
// with the collation of its language, German unless set otherwise.
type ResultsFormatter struct {
	lang language.Tag
}

// New creates a new ResultsFormatter using German collation
func New() *ResultsFormatter {
	return NewWithLanguage(language.German)
}

// NewWithLanguage creates a new ResultsFormatter for lang
func NewWithLanguage(lang language.Tag) *ResultsFormatter {
	return &ResultsFormatter{lang: lang}
}

// newCollator returns a fresh collator; collators are not safe for
// concurrent use.
func (f *ResultsFormatter) newCollator() *collate.Collator {
	return collate.New(f.lang, collate.Loose)
}

// SortNames returns a collated copy of names
func (f *ResultsFormatter) SortNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	f.newCollator().SortStrings(out)
	return out
}

// DistrictNames formats the districts of a zip code
func (f *ResultsFormatter) DistrictNames(zipCode string, names []string) models.DistrictNames {
	return models.DistrictNames{
		ZipCode:   zipCode,
		Districts: f.SortNames(names),
	}
}

// LastUpdate formats the last update date of a postal community
func (f *ResultsFormatter) LastUpdate(postalName string, t time.Time) models.LastUpdate {
	return models.LastUpdate{
		PostalCommunity: postalName,
		LastUpdate:      FormatDate(t),
	}
}

// CantonSummaries lists every canton with its community and district counts,
// ordered by canton name.
func (f *ResultsFormatter) CantonSummaries(e *query.Engine) ([]models.CantonSummary, error) {
	cantons := e.Model().Cantons()
	names := make([]string, len(cantons))
	byName := make(map[string][]*models.Canton, len(cantons))
	for i, c := range cantons {
		names[i] = c.Name
		byName[c.Name] = append(byName[c.Name], c)
	}

	out := make([]models.CantonSummary, 0, len(cantons))
	seen := make(map[string]bool, len(cantons))
	for _, name := range f.SortNames(names) {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, c := range byName[name] {
			communities, err := e.CountPoliticalCommunitiesInCanton(c.Code)
			if err != nil {
				return nil, err
			}
			districts, err := e.CountDistrictsInCanton(c.Code)
			if err != nil {
				return nil, err
			}
			out = append(out, models.CantonSummary{
				Code:                 c.Code,
				Name:                 c.Name,
				PoliticalCommunities: communities,
				Districts:            districts,
			})
		}
	}
	return out, nil
}

// FormatDate formats t as YYYY-MM-DD, or "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
