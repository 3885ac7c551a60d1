// Package query answers aggregate and join questions over a normalized
// models.Model. An Engine never modifies the model and is safe for concurrent
// use.
package query

import (
	"sort"
	"time"

	"swissgeo/internal/models"
)

// Engine runs read-only queries against one model
type Engine struct {
	model     *models.Model
	political []*models.PoliticalCommunity
	postal    []*models.PostalCommunity
	cantons   map[string]*models.Canton
	districts map[string]*models.District
}

// New creates a new Engine for the given model
func New(model *models.Model) *Engine {
	e := &Engine{
		model:     model,
		political: model.PoliticalCommunities(),
		postal:    model.PostalCommunities(),
		cantons:   make(map[string]*models.Canton),
		districts: make(map[string]*models.District),
	}
	for _, c := range model.Cantons() {
		e.cantons[c.Code] = c
	}
	for _, d := range model.Districts() {
		e.districts[d.Number] = d
	}
	return e
}

// Model returns the model the engine queries
func (e *Engine) Model() *models.Model {
	return e.model
}

// Canton looks up a canton by code
func (e *Engine) Canton(code string) (*models.Canton, error) {
	c, ok := e.cantons[code]
	if !ok {
		return nil, NewLookupError(EntityCanton, code)
	}
	return c, nil
}

// District looks up a district by number
func (e *Engine) District(number string) (*models.District, error) {
	d, ok := e.districts[number]
	if !ok {
		return nil, NewLookupError(EntityDistrict, number)
	}
	return d, nil
}

// CountPoliticalCommunitiesInCanton counts the political communities of the
// canton with the given code.
func (e *Engine) CountPoliticalCommunitiesInCanton(cantonCode string) (int, error) {
	canton, err := e.Canton(cantonCode)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, pc := range e.political {
		if pc.Canton != nil && pc.Canton.Code == canton.Code {
			count++
		}
	}
	return count, nil
}

// CountDistrictsInCanton counts the distinct districts the canton's political
// communities belong to. Communities without a district are not counted.
func (e *Engine) CountDistrictsInCanton(cantonCode string) (int, error) {
	canton, err := e.Canton(cantonCode)
	if err != nil {
		return 0, err
	}
	districts := make(map[string]struct{})
	for _, pc := range e.political {
		if pc.Canton != nil && pc.Canton.Code == canton.Code && pc.District != nil {
			districts[pc.District.Number] = struct{}{}
		}
	}
	return len(districts), nil
}

// CountPoliticalCommunitiesInDistrict counts the political communities of the
// district with the given number.
func (e *Engine) CountPoliticalCommunitiesInDistrict(districtNumber string) (int, error) {
	district, err := e.District(districtNumber)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, pc := range e.political {
		if pc.District != nil && pc.District.Number == district.Number {
			count++
		}
	}
	return count, nil
}

// DistrictNamesForZipCode returns the sorted, distinct names of the districts
// reached from every postal community with the zip code, whatever its
// addition. An unknown zip code yields an empty slice.
func (e *Engine) DistrictNamesForZipCode(zipCode string) []string {
	names := make(map[string]struct{})
	for _, postal := range e.postal {
		if postal.ZipCode != zipCode {
			continue
		}
		for _, pc := range postal.PoliticalCommunities {
			if pc.District != nil {
				names[pc.District.Name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LastUpdateByPostalCommunityName returns the last update of the first
// political community linked from the first postal community with the given
// name. Postal communities without links are skipped; ok is false when no
// postal community with that name links to a political community.
func (e *Engine) LastUpdateByPostalCommunityName(name string) (lastUpdate time.Time, ok bool) {
	for _, postal := range e.postal {
		if postal.Name != name {
			continue
		}
		if len(postal.PoliticalCommunities) > 0 {
			return postal.PoliticalCommunities[0].LastUpdate, true
		}
	}
	return time.Time{}, false
}

// CountCantons returns the number of cantons in the model
func (e *Engine) CountCantons() int {
	return len(e.cantons)
}

// CountPoliticalCommunitiesWithoutPostalCommunities counts the political
// communities that no postal community links to.
func (e *Engine) CountPoliticalCommunitiesWithoutPostalCommunities() int {
	linked := make(map[string]struct{})
	for _, postal := range e.postal {
		for _, pc := range postal.PoliticalCommunities {
			linked[pc.Number] = struct{}{}
		}
	}
	count := 0
	for _, pc := range e.political {
		if _, ok := linked[pc.Number]; !ok {
			count++
		}
	}
	return count
}
