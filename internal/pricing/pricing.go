// Package pricing implements the fixed service price tables and the
// quote messages built from them.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrTooManyPeople is returned when a cooking request exceeds the service
// capacity of 8 people.
var ErrTooManyPeople = errors.New("cooking service supports at most 8 people")

// formatVND renders an amount with dotted thousands grouping, the common
// Vietnamese style (1.000.000).
func formatVND(amount int64) string {
	return strings.ReplaceAll(humanize.Comma(amount), ",", ".")
}

// CleaningQuote prices house cleaning by floor area in m².
func CleaningQuote(area float64) string {
	switch {
	case area <= 55:
		return "140.000 VNĐ (gói 2 giờ cho ≤ 55 m²)"
	case area <= 85:
		total := int64(math.Round(area * 2000))
		return fmt.Sprintf("Diện tích dưới ≤ 85 m² được tính với giá %s VNĐ", formatVND(total))
	case area <= 105:
		total := int64(math.Round(area * 2500))
		return fmt.Sprintf("Diện tích dưới ≤ 105 m² được tính với giá %s VNĐ", formatVND(total))
	default:
		total := int64(math.Round(area * 2000))
		return fmt.Sprintf("Diện tích dưới ≥ 105 m² được tính với giá %s VNĐ", formatVND(total))
	}
}

// CookingQuote prices a cooking booking from party size, dish count, and
// duration. Bookings above 8 people are out of scope for self-service
// quoting and return ErrTooManyPeople.
func CookingQuote(people, dishes int, hours float64) (string, error) {
	if people > 8 {
		return "", ErrTooManyPeople
	}

	var base, surcharge int64
	if people <= 4 {
		if hours <= 2 {
			base = 145000
		} else {
			base = 220000
		}
		if dishes <= 3 {
			surcharge = 20000
		} else {
			surcharge = 35000
		}
	} else {
		if hours <= 2.5 {
			base = 180000
		} else {
			base = 250000
		}
		if dishes <= 3 {
			surcharge = 30000
		} else {
			surcharge = 45000
		}
	}

	total := base + surcharge
	return fmt.Sprintf("%s VNĐ (gói %s giờ cho %d người) + %s VNĐ phụ thu (%d món) = %s VNĐ",
		formatVND(base), formatHours(hours), people,
		formatVND(surcharge), dishes, formatVND(total)), nil
}

// formatHours drops the fraction when it is whole (2 rather than 2.0).
func formatHours(hours float64) string {
	if hours == float64(int64(hours)) {
		return fmt.Sprintf("%d", int64(hours))
	}
	return strings.TrimRight(fmt.Sprintf("%.2f", hours), "0")
}

// RepairQuote prices air conditioner repair by unit type and capacity.
// Unknown unit types are priced as split units. Units above 2 HP carry a
// fixed surcharge.
func RepairQuote(unitType string, hp float64) string {
	var base int64
	switch unitType {
	case "portable":
		base = 140000
	case "split":
		base = 250000
	case "ceiling-mounted":
		base = 280000
	default:
		base = 250000
		unitType = "split"
	}

	if hp > 2 {
		const surcharge = 20000
		return fmt.Sprintf("%s VNĐ (sửa điều hòa %s) + %s VNĐ phụ thu (> 2 HP) = %s VNĐ",
			formatVND(base), unitType, formatVND(surcharge), formatVND(base+surcharge))
	}
	return fmt.Sprintf("%s VNĐ (sửa điều hòa %s)", formatVND(base), unitType)
}
