package passwords

import "strings"

// Category groups records in listings.
type Category string

const (
	CategorySocial        Category = "social"
	CategoryEmail         Category = "email"
	CategoryFinance       Category = "finance"
	CategoryWork          Category = "work"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySocial,
	CategoryEmail,
	CategoryFinance,
	CategoryWork,
	CategoryShopping,
	CategoryEntertainment,
	CategoryOther,
}

// ParseCategory maps s onto a known category, case-insensitively.
// Unknown and empty values become CategoryOther.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}
