package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"swissgeo/internal/models"
)

// Column aliases, lower case. The first entries are the column names used by
// the official community and zip code directories.
var (
	politicalColumns = map[string][]string{
		"number":         {"gdenr", "number"},
		"name":           {"gdename", "name"},
		"shortName":      {"gdenamk", "shortname"},
		"cantonCode":     {"gdekt", "cantoncode"},
		"cantonName":     {"gdektna", "cantonname"},
		"districtNumber": {"gdebznr", "districtnumber"},
		"districtName":   {"gdebzna", "districtname"},
		"lastUpdate":     {"gdemutdat", "lastupdate"},
	}
	postalColumns = map[string][]string{
		"zipCode":                     {"plz4", "zipcode"},
		"zipCodeAddition":             {"plzz", "zipcodeaddition"},
		"name":                        {"plznamk", "name"},
		"cantonCode":                  {"ktkz", "cantoncode"},
		"politicalCommunityNumber":    {"gdenr", "politicalcommunitynumber"},
		"politicalCommunityShortName": {"gdenamk", "politicalcommunityshortname"},
	}

	politicalRequired = []string{"number", "cantonCode", "districtNumber"}
	postalRequired    = []string{"zipCode", "politicalCommunityNumber"}

	dateLayouts = []string{"02.01.2006", "2.1.2006", "2006-01-02"}
)

// DecodePoliticalCommunities reads political community rows from a CSV
// document with a header line.
func DecodePoliticalCommunities(r io.Reader) ([]models.PoliticalCommunityRow, error) {
	t, err := newTable(r, politicalColumns, politicalRequired)
	if err != nil {
		return nil, err
	}

	var rows []models.PoliticalCommunityRow
	err = t.each(func(get func(string) string) {
		lastUpdate, _ := parseDate(get("lastUpdate"))
		rows = append(rows, models.PoliticalCommunityRow{
			Number:         get("number"),
			Name:           get("name"),
			ShortName:      get("shortName"),
			CantonCode:     get("cantonCode"),
			CantonName:     get("cantonName"),
			DistrictNumber: get("districtNumber"),
			DistrictName:   get("districtName"),
			LastUpdate:     lastUpdate,
		})
	})
	return rows, err
}

// DecodePostalCommunities reads postal community rows from a CSV document
// with a header line.
func DecodePostalCommunities(r io.Reader) ([]models.PostalCommunityRow, error) {
	t, err := newTable(r, postalColumns, postalRequired)
	if err != nil {
		return nil, err
	}

	var rows []models.PostalCommunityRow
	err = t.each(func(get func(string) string) {
		rows = append(rows, models.PostalCommunityRow{
			ZipCode:                     get("zipCode"),
			ZipCodeAddition:             get("zipCodeAddition"),
			Name:                        get("name"),
			CantonCode:                  get("cantonCode"),
			PoliticalCommunityNumber:    get("politicalCommunityNumber"),
			PoliticalCommunityShortName: get("politicalCommunityShortName"),
		})
	})
	return rows, err
}

// parseDate accepts Swiss (dd.mm.yyyy) and ISO dates. An empty or malformed
// value yields the zero time.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// table is a CSV document whose columns are addressed by field name
type table struct {
	reader  *csv.Reader
	columns map[string]int
}

func newTable(r io.Reader, aliases map[string][]string, required []string) (*table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, NewParseError("header", fmt.Errorf("failed to read CSV header: %w", err))
	}
	if strings.TrimSpace(first) == "" {
		return nil, NewParseError("header", errors.New("empty CSV document"))
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(first), br))
	reader.Comma = detectComma(first)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, NewParseError("header", fmt.Errorf("failed to read CSV header: %w", err))
	}

	// Create header map for easier access
	headerMap := make(map[string]int, len(headers))
	for i, header := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	columns := make(map[string]int, len(aliases))
	for field, names := range aliases {
		for _, name := range names {
			if idx, ok := headerMap[name]; ok {
				columns[field] = idx
				break
			}
		}
	}
	for _, field := range required {
		if _, ok := columns[field]; !ok {
			return nil, NewParseError("header", fmt.Errorf("missing column for %s (one of %v)", field, aliases[field]))
		}
	}

	return &table{reader: reader, columns: columns}, nil
}

// each calls fn for every non-blank record
func (t *table) each(fn func(get func(string) string)) error {
	for {
		record, err := t.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return NewParseError("row", err)
		}
		if isBlank(record) {
			continue
		}

		fn(func(field string) string {
			idx, ok := t.columns[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		})
	}
}

// detectComma picks the delimiter of a header line
func detectComma(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
