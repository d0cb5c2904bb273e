// ABOUTME: Filter and sort criteria for the course list view.
// ABOUTME: ApplyCriteria is pure: it never mutates its input.

package presenter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harper/coursetrack/internal/models"
)

type SortKey string

const (
	SortUpdatedDesc    SortKey = "updated_desc"
	SortAlphaAsc       SortKey = "alpha_asc"
	SortProgressDesc   SortKey = "progress_desc"
	SortProgressAsc    SortKey = "progress_asc"
	SortFavoritesFirst SortKey = "favorites_first"
)

// SortKeys lists the supported keys, default first.
var SortKeys = []SortKey{SortUpdatedDesc, SortAlphaAsc, SortProgressDesc, SortProgressAsc, SortFavoritesFirst}

type Criteria struct {
	Search        string
	Statuses      []models.Status
	OnlyFavorites bool
	Sort          SortKey
}

// DefaultCriteria filters nothing and sorts by last update.
func DefaultCriteria() Criteria {
	return Criteria{Sort: SortUpdatedDesc}
}

// Matches reports whether c passes the search, status and favorite filters.
func (cr Criteria) Matches(c models.Course) bool {
	return matchesSearch(c, cr.Search) && matchesStatus(c, cr.Statuses) &&
		(!cr.OnlyFavorites || c.Favorite)
}

func matchesSearch(c models.Course, search string) bool {
	query := strings.ToLower(search)
	if query == "" {
		return true
	}
	if needle, ok := strings.CutPrefix(query, "#"); ok {
		return anyTagContains(c.Tags, needle)
	}
	return strings.Contains(strings.ToLower(c.Title), query) ||
		strings.Contains(strings.ToLower(c.Description), query) ||
		anyTagContains(c.Tags, query)
}

func anyTagContains(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func matchesStatus(c models.Course, statuses []models.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// ApplyCriteria filters then stable-sorts a copy of courses.
func ApplyCriteria(courses []models.Course, cr Criteria) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if cr.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, less(out, cr.Sort))
	return out
}

func less(out []models.Course, key SortKey) func(i, j int) bool {
	switch key {
	case SortAlphaAsc:
		col := collate.New(language.Und, collate.IgnoreCase)
		return func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		}
	case SortProgressDesc:
		return func(i, j int) bool {
			return out[i].Ratio() > out[j].Ratio()
		}
	case SortProgressAsc:
		return func(i, j int) bool {
			return out[i].Ratio() < out[j].Ratio()
		}
	case SortFavoritesFirst:
		return func(i, j int) bool {
			if out[i].Favorite != out[j].Favorite {
				return out[i].Favorite
			}
			return out[i].LastUpdated.After(out[j].LastUpdated)
		}
	default:
		return func(i, j int) bool {
			return out[i].LastUpdated.After(out[j].LastUpdated)
		}
	}
}

// ParseSortKey maps user input to a key; unknown input falls back to the default.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, k := range SortKeys {
		if k == key {
			return k
		}
	}
	return SortUpdatedDesc
}
