// Package filter вычисляет видимый список отзывов по критериям фильтра.
// Результат всегда производный и нигде не хранится.
package filter

import (
	"strconv"
	"strings"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
)

// VisibleReviews возвращает совпадения в исходном порядке хранилища
func VisibleReviews(all []entity.Review, c entity.FilterCriteria) []entity.Review {
	term := strings.ToLower(c.SearchTerm)

	visible := make([]entity.Review, 0, len(all))
	for _, r := range all {
		if matches(r, term, c) {
			visible = append(visible, r)
		}
	}
	return visible
}

// Matches проверяет один отзыв
func Matches(r entity.Review, c entity.FilterCriteria) bool {
	return matches(r, strings.ToLower(c.SearchTerm), c)
}

func matches(r entity.Review, lowerTerm string, c entity.FilterCriteria) bool {
	if lowerTerm != "" &&
		!strings.Contains(strings.ToLower(r.ProductName), lowerTerm) &&
		!strings.Contains(strings.ToLower(r.Content), lowerTerm) {
		return false
	}
	if c.Category != "" && c.Category != entity.CategoryAll && r.Category != c.Category {
		return false
	}
	if c.Rating != 0 && r.Rating != c.Rating {
		return false
	}
	return true
}

// ParseCriteria собирает критерии из строковых параметров запроса.
// rating: пусто, "any" или "0" - без фильтра.
func ParseCriteria(search, category, rating string) (entity.FilterCriteria, error) {
	c := entity.FilterCriteria{
		SearchTerm: strings.TrimSpace(search),
		Category:   entity.Category(strings.TrimSpace(category)),
	}

	switch r := strings.TrimSpace(strings.ToLower(rating)); r {
	case "", "any", "0":
	default:
		n, err := strconv.Atoi(r)
		if err != nil || n < 1 || n > 5 {
			ve := entity.NewValidationError()
			ve.Add("rating", "must be between 1 and 5 or any")
			return entity.FilterCriteria{}, ve
		}
		c.Rating = n
	}

	if c.Category != "" && c.Category != entity.CategoryAll && !c.Category.Valid() {
		ve := entity.NewValidationError()
		ve.Add("category", "must be All or one of the known categories")
		return entity.FilterCriteria{}, ve
	}

	return c, nil
}
