package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain/entity"
)

func TestParseCategory(t *testing.T) {
	rq := require.New(t)

	for _, c := range entity.AllCategories {
		parsed, ok := entity.ParseCategory(c.String())
		rq.True(ok)
		rq.Equal(c, parsed)
	}

	_, ok := entity.ParseCategory("swords")
	rq.False(ok)
}

func TestNextCategoryWrapsAround(t *testing.T) {
	rq := require.New(t)

	next, wrapped := entity.NextCategory(entity.CategoryWeaponsOffense)
	rq.Equal(entity.CategoryWeaponsDefense, next)
	rq.False(wrapped)

	next, wrapped = entity.NextCategory(entity.CategoryMisc)
	rq.Equal(entity.CategoryWeaponsOffense, next)
	rq.True(wrapped)
}

func TestCategoryNavComplete(t *testing.T) {
	rq := require.New(t)

	for _, c := range entity.AllCategories {
		nav := c.Nav()
		rq.NotEmpty(nav.MenuLabel)
		rq.NotEmpty(nav.SectionStart)
		rq.NotEmpty(nav.SectionEnd)
	}
}
