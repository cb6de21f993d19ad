package complaint

import "strings"

// Canonical categories.
const (
	CategoryElectricity = "Electricity"
	CategoryWater       = "Water"
	CategoryHealth      = "Health"
	CategoryRoads       = "Roads"
	CategorySanitation  = "Sanitation"
	CategoryOther       = "Other"
)

// DefaultDepartment receives Other and every unmapped category.
const DefaultDepartment = "General Affairs"

var departments = map[string]string{
	CategoryElectricity: "QESCO",
	CategoryWater:       "Water Board",
	CategoryHealth:      "Health Dept",
	CategoryRoads:       "Public Works",
	CategorySanitation:  "Municipal",
	CategoryOther:       DefaultDepartment,
}

// categoryOrder keeps listings stable.
var categoryOrder = []string{
	CategoryElectricity,
	CategoryWater,
	CategoryHealth,
	CategoryRoads,
	CategorySanitation,
	CategoryOther,
}

// Urdu form labels submitted by the language-toggled UI.
var urduCategories = map[string]string{
	"بجلی":  CategoryElectricity,
	"پانی":  CategoryWater,
	"صحت":   CategoryHealth,
	"سڑکیں": CategoryRoads,
	"سڑک":   CategoryRoads,
	"صفائی": CategorySanitation,
	"دیگر":  CategoryOther,
}

// NormalizeCategory maps a submitted category to its canonical English name.
// The second result is false for categories outside the table.
func NormalizeCategory(category string) (string, bool) {
	category = strings.TrimSpace(category)
	if canonical, ok := urduCategories[category]; ok {
		return canonical, true
	}
	for _, c := range categoryOrder {
		if strings.EqualFold(c, category) {
			return c, true
		}
	}
	return category, false
}

// DepartmentFor returns the department responsible for a category.
func DepartmentFor(category string) string {
	canonical, ok := NormalizeCategory(category)
	if !ok {
		return DefaultDepartment
	}
	return departments[canonical]
}

// DepartmentRoute is one row of the routing table.
type DepartmentRoute struct {
	Category   string `json:"category"`
	Department string `json:"department"`
}

// Routes returns the routing table in display order.
func Routes() []DepartmentRoute {
	routes := make([]DepartmentRoute, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		routes = append(routes, DepartmentRoute{Category: c, Department: departments[c]})
	}
	return routes
}
