package handlers

import (
	"strconv"

	"github.com/saeid-a/CoachFinance/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parsePage(page, limit string) (int, int) {
	p := parsePositiveInt(page, 1)
	l := parsePositiveInt(limit, defaultPageLimit)
	if l > maxPageLimit {
		l = maxPageLimit
	}
	return p, l
}
