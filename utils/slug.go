package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vivemedellin/vivemedellin/models"
)

// DefaultSlug is used when a name has no sluggable characters.
const DefaultSlug = "grupo"

var (
	// Unicode separators (no-break space, em space, line separator) and
	// BOM count as whitespace, not as invalid characters.
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s\v\p{Z}\x{FEFF}-]`)
	slugWhitespace = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify turns a group name into a lowercase, accent-free, URL-safe slug.
func Slugify(name string) string {
	s := Fold(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultSlug
	}
	return s
}

// MakeUniqueSlug returns base, or base-N with the smallest N >= 1 not in reserved.
func MakeUniqueSlug(base string, reserved map[string]struct{}) string {
	if _, taken := reserved[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, taken := reserved[candidate]; !taken {
			return candidate
		}
	}
}

// EnsureSlugs backfills missing slugs and renames colliding ones in place.
// Groups are visited oldest first so the earliest owner of a slug keeps it.
// It reports whether any slug changed.
func EnsureSlugs(groups []models.Group) bool {
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return groups[order[a]].CreatedAt.Before(groups[order[b]].CreatedAt)
	})

	reserved := make(map[string]struct{}, len(groups))
	changed := false
	for _, idx := range order {
		g := &groups[idx]
		_, taken := reserved[g.Slug]
		if g.Slug == "" || taken {
			g.Slug = MakeUniqueSlug(Slugify(g.Name), reserved)
			changed = true
		}
		reserved[g.Slug] = struct{}{}
	}
	return changed
}

// ReservedSlugs collects the slugs already used by groups.
func ReservedSlugs(groups []models.Group) map[string]struct{} {
	reserved := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.Slug != "" {
			reserved[g.Slug] = struct{}{}
		}
	}
	return reserved
}
