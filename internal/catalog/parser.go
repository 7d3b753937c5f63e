package catalog

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// The catalog file is line-oriented:
//
//	CASE: <name> = <price>
//	WEAPON: <name> | <stattrak> | <rarity> | <price> | <case>, <case>, ...
//
// Blank lines and # comments are ignored. Malformed lines are skipped so a
// single bad entry cannot take the whole catalog down.

// StatTrakMarkup is the price multiplier applied to StatTrak variants.
const StatTrakMarkup = 1.3

var (
	slugSpaceRe   = regexp.MustCompile(`\s+`)
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9\-]`)
	slugDashRe    = regexp.MustCompile(`-+`)
	nameSepRe     = regexp.MustCompile(`[_-]+`)

	keyFolder = cases.Fold()
)

// caseDef and weaponDef are the raw parsed lines before ID assignment.
type caseDef struct {
	Name  string
	Price int64
}

type weaponDef struct {
	Name     string
	Rarity   domain.Rarity
	Price    int64
	StatTrak bool
	Cases    []string
}

// Slugify converts a display name into a stable lowercase id.
func Slugify(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = slugSpaceRe.ReplaceAllString(v, "-")
	v = slugInvalidRe.ReplaceAllString(v, "")
	v = slugDashRe.ReplaceAllString(v, "-")
	return v
}

// NormalizeName collapses separators and whitespace in a display name.
func NormalizeName(value string) string {
	v := nameSepRe.ReplaceAllString(value, " ")
	v = slugSpaceRe.ReplaceAllString(strings.TrimSpace(v), " ")
	return v
}

// normalizeKey produces the case-folded lookup key for a name. Unicode
// folding matters here: catalog files come from hand-edited configs.
func normalizeKey(value string) string {
	return keyFolder.String(NormalizeName(value))
}

func parse(r io.Reader) ([]caseDef, []weaponDef, error) {
	var (
		caseDefs   []caseDef
		weaponDefs []weaponDef
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(raw, "CASE:"):
			if def, ok := parseCaseLine(strings.TrimSpace(raw[len("CASE:"):])); ok {
				caseDefs = append(caseDefs, def)
			}
		case strings.HasPrefix(raw, "WEAPON:"):
			if def, ok := parseWeaponLine(strings.TrimSpace(raw[len("WEAPON:"):])); ok {
				weaponDefs = append(weaponDefs, def)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return caseDefs, weaponDefs, nil
}

func parseCaseLine(payload string) (caseDef, bool) {
	name, priceRaw, found := strings.Cut(payload, "=")
	if !found {
		return caseDef{}, false
	}
	price, err := strconv.ParseInt(strings.TrimSpace(priceRaw), 10, 64)
	if err != nil {
		price = 0
	}
	return caseDef{Name: strings.TrimSpace(name), Price: price}, true
}

func parseWeaponLine(payload string) (weaponDef, bool) {
	parts := strings.Split(payload, "|")
	if len(parts) < 5 {
		return weaponDef{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	stattrak := isTruthy(parts[1])
	price, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		price = 0
	}
	if stattrak {
		price = int64(math.Round(float64(price) * StatTrakMarkup))
	}

	var caseNames []string
	for _, c := range strings.Split(parts[4], ",") {
		if c = strings.TrimSpace(c); c != "" {
			caseNames = append(caseNames, NormalizeName(c))
		}
	}

	return weaponDef{
		Name:     parts[0],
		Rarity:   domain.Rarity(strings.ToLower(parts[2])),
		Price:    price,
		StatTrak: stattrak,
		Cases:    caseNames,
	}, true
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1", "stattrak":
		return true
	}
	return false
}
