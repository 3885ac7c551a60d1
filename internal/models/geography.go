package models

import "time"

// Canton is a first-level administrative region, keyed by its code (e.g. "ZH")
type Canton struct {
	Code string
	Name string
}

// District groups political communities inside a canton, keyed by number
type District struct {
	Number string
	Name   string
}

// PoliticalCommunity is a municipality. Canton and District are nil when the
// source row referenced a key that could not be linked.
type PoliticalCommunity struct {
	Number     string
	Name       string
	ShortName  string
	LastUpdate time.Time
	Canton     *Canton
	District   *District
}

// PostalKey identifies a postal community. Addition may be empty.
type PostalKey struct {
	ZipCode  string
	Addition string
}

// PostalCommunity is a postal delivery area linked to zero or more political
// communities.
type PostalCommunity struct {
	ZipCode              string
	ZipCodeAddition      string
	Name                 string
	PoliticalCommunities []*PoliticalCommunity
}

// Key returns the natural key of the postal community
func (p *PostalCommunity) Key() PostalKey {
	return PostalKey{ZipCode: p.ZipCode, Addition: p.ZipCodeAddition}
}

// Model is the normalized geography. It is never modified after NewModel
// returns; the entities it hands out are shared and must be treated as
// read-only.
type Model struct {
	cantons              []*Canton
	districts            []*District
	politicalCommunities []*PoliticalCommunity
	postalCommunities    []*PostalCommunity
}

// NewModel assembles a model from already linked entities
func NewModel(cantons []*Canton, districts []*District, political []*PoliticalCommunity, postal []*PostalCommunity) *Model {
	return &Model{
		cantons:              clone(cantons),
		districts:            clone(districts),
		politicalCommunities: clone(political),
		postalCommunities:    clone(postal),
	}
}

// Cantons returns the cantons ordered by code
func (m *Model) Cantons() []*Canton {
	return clone(m.cantons)
}

// Districts returns the districts ordered by number
func (m *Model) Districts() []*District {
	return clone(m.districts)
}

// PoliticalCommunities returns the political communities ordered by number
func (m *Model) PoliticalCommunities() []*PoliticalCommunity {
	return clone(m.politicalCommunities)
}

// PostalCommunities returns the postal communities ordered by zip code and
// addition
func (m *Model) PostalCommunities() []*PostalCommunity {
	return clone(m.postalCommunities)
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
