// Package geotest provides a small, consistent geography dataset for tests.
//
// Cantons ZH, BE, BS and FR; district 109 holds Dübendorf and Uster; zip code
// 8600 spans two districts; 4000 has two additions; 9999 links to an unknown
// community; 2391 (Staatswald Galm) is a Kommunanz.
package geotest

import (
	"time"

	"swissgeo/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// PoliticalRows returns the raw political community rows
func PoliticalRows() []models.PoliticalCommunityRow {
	return []models.PoliticalCommunityRow{
		{Number: "261", Name: "Zürich", ShortName: "Zürich", CantonCode: "ZH", CantonName: "Zürich", DistrictNumber: "112", DistrictName: "Bezirk Zürich", LastUpdate: date(2018, time.January, 1)},
		{Number: "191", Name: "Dübendorf", ShortName: "Dübendorf", CantonCode: "ZH", CantonName: "Zürich", DistrictNumber: "109", DistrictName: "Bezirk Uster", LastUpdate: date(2010, time.July, 1)},
		{Number: "198", Name: "Uster", ShortName: "Uster", CantonCode: "ZH", CantonName: "Zürich", DistrictNumber: "109", DistrictName: "Bezirk Uster", LastUpdate: date(2012, time.January, 1)},
		{Number: "351", Name: "Bern", ShortName: "Bern", CantonCode: "BE", CantonName: "Bern", DistrictNumber: "246", DistrictName: "Verwaltungskreis Bern-Mittelland", LastUpdate: date(2010, time.January, 1)},
		{Number: "2701", Name: "Basel", ShortName: "Basel", CantonCode: "BS", CantonName: "Basel-Stadt", DistrictNumber: "1200", DistrictName: "Basel-Stadt", LastUpdate: date(1960, time.January, 1)},
		{Number: "2703", Name: "Riehen", ShortName: "Riehen", CantonCode: "BS", CantonName: "Basel-Stadt", DistrictNumber: "1200", DistrictName: "Basel-Stadt", LastUpdate: date(1960, time.January, 1)},
		{Number: "2391", Name: "Staatswald Galm", ShortName: "Staatswald Galm", CantonCode: "FR", CantonName: "Fribourg / Freiburg", DistrictNumber: "1004", DistrictName: "See / Lac", LastUpdate: date(2017, time.January, 1)},
	}
}

// PostalRows returns the raw postal community rows
func PostalRows() []models.PostalCommunityRow {
	return []models.PostalCommunityRow{
		{ZipCode: "8001", Name: "Zürich", CantonCode: "ZH", PoliticalCommunityNumber: "261", PoliticalCommunityShortName: "Zürich"},
		{ZipCode: "8002", Name: "Zürich", CantonCode: "ZH", PoliticalCommunityNumber: "261", PoliticalCommunityShortName: "Zürich"},
		{ZipCode: "8600", Name: "Dübendorf", CantonCode: "ZH", PoliticalCommunityNumber: "261", PoliticalCommunityShortName: "Zürich"},
		{ZipCode: "8600", Name: "Dübendorf", CantonCode: "ZH", PoliticalCommunityNumber: "191", PoliticalCommunityShortName: "Dübendorf"},
		{ZipCode: "8610", Name: "Uster", CantonCode: "ZH", PoliticalCommunityNumber: "198", PoliticalCommunityShortName: "Uster"},
		{ZipCode: "3000", Name: "Bern", CantonCode: "BE", PoliticalCommunityNumber: "351", PoliticalCommunityShortName: "Bern"},
		{ZipCode: "4000", ZipCodeAddition: "01", Name: "Basel", CantonCode: "BS", PoliticalCommunityNumber: "2701", PoliticalCommunityShortName: "Basel"},
		{ZipCode: "4000", ZipCodeAddition: "02", Name: "Basel", CantonCode: "BS", PoliticalCommunityNumber: "2701", PoliticalCommunityShortName: "Basel"},
		{ZipCode: "4125", Name: "Riehen", CantonCode: "BS", PoliticalCommunityNumber: "2703", PoliticalCommunityShortName: "Riehen"},
		{ZipCode: "9999", Name: "Nirgendwo", CantonCode: "XX", PoliticalCommunityNumber: "9999", PoliticalCommunityShortName: "Nirgendwo"},
	}
}

// Model returns the entities of PoliticalRows and PostalRows, linked by hand
// so tests of the query layer do not depend on the normalizer.
func Model() *models.Model {
	cantons := map[string]*models.Canton{}
	districts := map[string]*models.District{}
	political := map[string]*models.PoliticalCommunity{}

	var cantonList []*models.Canton
	var districtList []*models.District
	var politicalList []*models.PoliticalCommunity
	for _, row := range PoliticalRows() {
		c, ok := cantons[row.CantonCode]
		if !ok {
			c = &models.Canton{Code: row.CantonCode, Name: row.CantonName}
			cantons[row.CantonCode] = c
			cantonList = append(cantonList, c)
		}
		d, ok := districts[row.DistrictNumber]
		if !ok {
			d = &models.District{Number: row.DistrictNumber, Name: row.DistrictName}
			districts[row.DistrictNumber] = d
			districtList = append(districtList, d)
		}
		pc := &models.PoliticalCommunity{
			Number:     row.Number,
			Name:       row.Name,
			ShortName:  row.ShortName,
			LastUpdate: row.LastUpdate,
			Canton:     c,
			District:   d,
		}
		political[row.Number] = pc
		politicalList = append(politicalList, pc)
	}

	postal := []*models.PostalCommunity{
		{ZipCode: "3000", Name: "Bern", PoliticalCommunities: []*models.PoliticalCommunity{political["351"]}},
		{ZipCode: "4000", ZipCodeAddition: "01", Name: "Basel", PoliticalCommunities: []*models.PoliticalCommunity{political["2701"]}},
		{ZipCode: "4000", ZipCodeAddition: "02", Name: "Basel", PoliticalCommunities: []*models.PoliticalCommunity{political["2701"]}},
		{ZipCode: "4125", Name: "Riehen", PoliticalCommunities: []*models.PoliticalCommunity{political["2703"]}},
		{ZipCode: "8001", Name: "Zürich", PoliticalCommunities: []*models.PoliticalCommunity{political["261"]}},
		{ZipCode: "8002", Name: "Zürich", PoliticalCommunities: []*models.PoliticalCommunity{political["261"]}},
		{ZipCode: "8600", Name: "Dübendorf", PoliticalCommunities: []*models.PoliticalCommunity{political["191"], political["261"]}},
		{ZipCode: "8610", Name: "Uster", PoliticalCommunities: []*models.PoliticalCommunity{political["198"]}},
		{ZipCode: "9999", Name: "Nirgendwo"},
	}
	return models.NewModel(cantonList, districtList, politicalList, postal)
}

// PoliticalCSV is PoliticalRows in the layout of the official community
// directory: semicolon separated, Swiss dates.
const PoliticalCSV = "GDEKT;GDEBZNR;GDENR;GDENAME;GDENAMK;GDEBZNA;GDEKTNA;GDEMUTDAT\n" +
	"ZH;112;261;Zürich;Zürich;Bezirk Zürich;Zürich;01.01.2018\n" +
	"ZH;109;191;Dübendorf;Dübendorf;Bezirk Uster;Zürich;01.07.2010\n" +
	"ZH;109;198;Uster;Uster;Bezirk Uster;Zürich;01.01.2012\n" +
	"BE;246;351;Bern;Bern;Verwaltungskreis Bern-Mittelland;Bern;01.01.2010\n" +
	"BS;1200;2701;Basel;Basel;Basel-Stadt;Basel-Stadt;01.01.1960\n" +
	"BS;1200;2703;Riehen;Riehen;Basel-Stadt;Basel-Stadt;01.01.1960\n" +
	"FR;1004;2391;Staatswald Galm;Staatswald Galm;See / Lac;Fribourg / Freiburg;01.01.2017\n"

// PostalCSV is PostalRows in the layout of the zip code directory
const PostalCSV = "PLZ4;PLZZ;PLZNAMK;KTKZ;GDENR;GDENAMK\n" +
	"8001;;Zürich;ZH;261;Zürich\n" +
	"8002;;Zürich;ZH;261;Zürich\n" +
	"8600;;Dübendorf;ZH;261;Zürich\n" +
	"8600;;Dübendorf;ZH;191;Dübendorf\n" +
	"8610;;Uster;ZH;198;Uster\n" +
	"3000;;Bern;BE;351;Bern\n" +
	"4000;01;Basel;BS;2701;Basel\n" +
	"4000;02;Basel;BS;2701;Basel\n" +
	"4125;;Riehen;BS;2703;Riehen\n" +
	"9999;;Nirgendwo;XX;9999;Nirgendwo\n"
