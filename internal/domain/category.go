package domain

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	CategoryGeneral       = "general"
	CategoryBusiness      = "business"
	CategoryEntertainment = "entertainment"
	CategoryHealth        = "health"
	CategoryScience       = "science"
	CategorySports        = "sports"
	CategoryTechnology    = "technology"
)

// Categories lists the categories supported by the headline source, in display order.
var Categories = []string{
	CategoryGeneral,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryHealth,
	CategoryScience,
	CategorySports,
	CategoryTechnology,
}

func CategoryOrDefault(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ArticleDefaultCategory
	}
	return category
}

func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateCategory accepts a blank category (no filter) or one of Categories.
func ValidateCategory(category string) error {
	in := make([]any, len(Categories))
	for i, c := range Categories {
		in[i] = c
	}
	err := validation.Validate(strings.ToLower(strings.TrimSpace(category)), validation.In(in...))
	if err != nil {
		return fmt.Errorf("unknown category %q, expected one of %v", category, Categories)
	}
	return nil
}

// NormalizeCategory lowercases and trims user input. Blank stays blank.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
