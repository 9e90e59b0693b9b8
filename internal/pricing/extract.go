package pricing

import (
	"regexp"
	"strconv"
)

// Params holds the quote inputs recognized in a query. Each field carries
// an ok flag because most queries only mention a subset.
type Params struct {
	Area    float64
	HasArea bool

	People    int
	HasPeople bool

	Dishes    int
	HasDishes bool

	Hours    float64
	HasHours bool

	UnitType    string
	HasUnitType bool

	HP    float64
	HasHP bool
}

var (
	areaRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m²`)
	peopleRe = regexp.MustCompile(`(\d+)\s*(?:người|people)`)
	dishesRe = regexp.MustCompile(`(\d+)\s*(?:món|dishes)`)
	hoursRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:giờ|hours?)`)
	typeRe   = regexp.MustCompile(`(split|portable|ceiling-mounted)`)
	hpRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hp|công suất)`)
)

// ExtractParams scans a normalized query for quote inputs. Extraction is
// best-effort; unparseable numbers leave the field unset.
func ExtractParams(normalized string) Params {
	var p Params

	if m := areaRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Area, p.HasArea = v, true
		}
	}
	if m := peopleRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			p.People, p.HasPeople = v, true
		}
	}
	if m := dishesRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			p.Dishes, p.HasDishes = v, true
		}
	}
	if m := hoursRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Hours, p.HasHours = v, true
		}
	}
	if m := typeRe.FindStringSubmatch(normalized); m != nil {
		p.UnitType, p.HasUnitType = m[1], true
	}
	if m := hpRe.FindStringSubmatch(normalized); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.HP, p.HasHP = v, true
		}
	}
	return p
}
