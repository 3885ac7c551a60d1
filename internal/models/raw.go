package models

import "time"

// PoliticalCommunityRow is one flat row of the political communities dataset.
// Canton and district data is repeated on every row.
type PoliticalCommunityRow struct {
	Number         string
	Name           string
	ShortName      string
	CantonCode     string
	CantonName     string
	DistrictNumber string
	DistrictName   string
	LastUpdate     time.Time
}

// PostalCommunityRow is one flat row of the postal communities dataset. A
// postal community spanning several political communities appears once per
// political community.
type PostalCommunityRow struct {
	ZipCode                     string
	ZipCodeAddition             string
	Name                        string
	CantonCode                  string
	PoliticalCommunityNumber    string
	PoliticalCommunityShortName string
}

// Dataset holds the raw rows of both datasets
type Dataset struct {
	Political []PoliticalCommunityRow
	Postal    []PostalCommunityRow
}
