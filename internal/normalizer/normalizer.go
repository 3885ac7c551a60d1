// Package normalizer turns the flat political and postal community rows into
// the linked entities of a models.Model.
package normalizer

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"swissgeo/internal/models"
)

// Normalizer builds models from raw rows
type Normalizer struct {
	logger *slog.Logger
}

// New creates a new Normalizer. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Build normalizes the given rows with the default logger
func Build(political []models.PoliticalCommunityRow, postal []models.PostalCommunityRow) *models.Model {
	return New(nil).Build(political, postal)
}

// Build links the raw rows into a model. The result does not depend on the
// order of the input rows.
func (n *Normalizer) Build(political []models.PoliticalCommunityRow, postal []models.PostalCommunityRow) *models.Model {
	cantons, districts := collectRegions(political)
	communities, byNumber := n.linkPoliticalCommunities(political, cantons, districts)
	postalCommunities := n.groupPostalCommunities(postal, byNumber)

	n.logger.Debug("normalized geography",
		"cantons", len(cantons),
		"districts", len(districts),
		"political_communities", len(communities),
		"postal_communities", len(postalCommunities))

	return models.NewModel(
		sortedValues(cantons, func(a, b *models.Canton) int { return strings.Compare(a.Code, b.Code) }),
		sortedValues(districts, func(a, b *models.District) int { return compareNumbers(a.Number, b.Number) }),
		communities,
		postalCommunities,
	)
}

// collectRegions derives one canton per code and one district per number.
// The first row carrying a key decides its name.
func collectRegions(rows []models.PoliticalCommunityRow) (map[string]*models.Canton, map[string]*models.District) {
	cantons := make(map[string]*models.Canton)
	districts := make(map[string]*models.District)
	for _, row := range rows {
		if _, ok := cantons[row.CantonCode]; !ok {
			cantons[row.CantonCode] = &models.Canton{Code: row.CantonCode, Name: row.CantonName}
		}
		if _, ok := districts[row.DistrictNumber]; !ok {
			districts[row.DistrictNumber] = &models.District{Number: row.DistrictNumber, Name: row.DistrictName}
		}
	}
	return cantons, districts
}

func (n *Normalizer) linkPoliticalCommunities(
	rows []models.PoliticalCommunityRow,
	cantons map[string]*models.Canton,
	districts map[string]*models.District,
) ([]*models.PoliticalCommunity, map[string]*models.PoliticalCommunity) {
	byNumber := make(map[string]*models.PoliticalCommunity, len(rows))
	var duplicates int
	for _, row := range rows {
		if _, ok := byNumber[row.Number]; ok {
			duplicates++
			continue
		}
		pc := &models.PoliticalCommunity{
			Number:     row.Number,
			Name:       row.Name,
			ShortName:  row.ShortName,
			LastUpdate: row.LastUpdate,
			Canton:     cantons[row.CantonCode],
			District:   districts[row.DistrictNumber],
		}
		byNumber[row.Number] = pc
	}
	if duplicates > 0 {
		n.logger.Debug("duplicate political community numbers ignored", "count", duplicates)
	}

	communities := sortedValues(byNumber, func(a, b *models.PoliticalCommunity) int {
		return compareNumbers(a.Number, b.Number)
	})
	return communities, byNumber
}

// groupPostalCommunities collapses postal rows sharing (zip code, addition)
// into one postal community linked to every political community named by the
// group.
func (n *Normalizer) groupPostalCommunities(
	rows []models.PostalCommunityRow,
	political map[string]*models.PoliticalCommunity,
) []*models.PostalCommunity {
	groups := make(map[models.PostalKey][]models.PostalCommunityRow)
	for _, row := range rows {
		key := models.PostalKey{ZipCode: row.ZipCode, Addition: row.ZipCodeAddition}
		groups[key] = append(groups[key], row)
	}

	keys := make([]models.PostalKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, comparePostalKeys)

	var dangling int
	out := make([]*models.PostalCommunity, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		rep := slices.MinFunc(group, compareRepresentatives)

		seen := make(map[string]struct{}, len(group))
		linked := make([]*models.PoliticalCommunity, 0, len(group))
		for _, row := range group {
			if _, ok := seen[row.PoliticalCommunityNumber]; ok {
				continue
			}
			seen[row.PoliticalCommunityNumber] = struct{}{}
			pc, ok := political[row.PoliticalCommunityNumber]
			if !ok {
				dangling++
				continue
			}
			linked = append(linked, pc)
		}
		slices.SortFunc(linked, func(a, b *models.PoliticalCommunity) int {
			return compareNumbers(a.Number, b.Number)
		})

		out = append(out, &models.PostalCommunity{
			ZipCode:              rep.ZipCode,
			ZipCodeAddition:      rep.ZipCodeAddition,
			Name:                 rep.Name,
			PoliticalCommunities: linked,
		})
	}
	if dangling > 0 {
		n.logger.Debug("postal rows reference unknown political communities", "count", dangling)
	}
	return out
}

// compareRepresentatives orders the rows of one postal group. The smallest
// row supplies the postal community's name.
func compareRepresentatives(a, b models.PostalCommunityRow) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := compareNumbers(a.PoliticalCommunityNumber, b.PoliticalCommunityNumber); c != 0 {
		return c
	}
	return strings.Compare(a.CantonCode, b.CantonCode)
}

func comparePostalKeys(a, b models.PostalKey) int {
	if c := compareNumbers(a.ZipCode, b.ZipCode); c != 0 {
		return c
	}
	return compareNumbers(a.Addition, b.Addition)
}

// compareNumbers orders numeric codes: empty codes first, then integers by
// value, then every other code as a string. Ties between integers with the
// same value ("07", "7") fall back to the string.
func compareNumbers(a, b string) int {
	ra, x := numberRank(a)
	rb, y := numberRank(b)
	if c := cmp.Compare(ra, rb); c != 0 {
		return c
	}
	if ra == rankInteger {
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

const (
	rankEmpty = iota
	rankInteger
	rankText
)

func numberRank(s string) (int, int) {
	if s == "" {
		return rankEmpty, 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return rankInteger, n
	}
	return rankText, 0
}

func sortedValues[K comparable, V any](m map[K]V, compare func(a, b V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, compare)
	return out
}
