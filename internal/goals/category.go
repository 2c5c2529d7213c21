package goals

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billu/internal/model"
)

// Goal categories.
const (
	CategoryEmergency   model.GoalCategory = "emergency"
	CategoryTravel      model.GoalCategory = "travel"
	CategoryHome        model.GoalCategory = "home"
	CategoryVehicle     model.GoalCategory = "vehicle"
	CategoryEducation   model.GoalCategory = "education"
	CategoryElectronics model.GoalCategory = "electronics"
)

// Category pairs a category tag with its display name.
type Category struct {
	ID   model.GoalCategory
	Name string
}

// Categories lists the known goal categories in display order.
var Categories = []Category{
	{CategoryEmergency, "Emergency Fund"},
	{CategoryTravel, "Travel"},
	{CategoryHome, "Home & Property"},
	{CategoryVehicle, "Vehicle"},
	{CategoryEducation, "Education"},
	{CategoryElectronics, "Electronics"},
}

// ParseCategory resolves a tag or display name to a known category.
func ParseCategory(s string) (model.GoalCategory, error) {
	key := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(key, string(c.ID)) || strings.EqualFold(key, c.Name) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("%w: unknown goal category %q", ErrInvalidInput, s)
}

// CategoryName returns the display name for id, or id itself when unknown.
func CategoryName(id model.GoalCategory) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return string(id)
}
