package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	p := dto.PageRequest{Offset: -3}
	p.Normalize()
	assert.Equal(t, dto.PageRequest{Limit: dto.DefaultPageSize}, p)

	p = dto.PageRequest{Limit: 500, Offset: 40}
	p.Normalize()
	assert.Equal(t, dto.MaxPageSize, p.Limit)
	assert.Equal(t, 40, p.Offset)
}

func TestPageRequest_PageConTotal(t *testing.T) {
	p := dto.PageRequest{Limit: 2, Offset: 2}

	page := p.Page(2, 5)
	require.NotNil(t, page.Total)
	assert.Equal(t, 5, *page.Total)
	assert.True(t, page.HasMore)

	last := dto.PageRequest{Limit: 2, Offset: 4}.Page(1, 5)
	assert.False(t, last.HasMore)
}

func TestPageRequest_PageSinContar(t *testing.T) {
	p := dto.PageRequest{Limit: 3}
	full := p.Page(3, -1)
	assert.Nil(t, full.Total)
	assert.True(t, full.HasMore)
	assert.False(t, p.Page(1, -1).HasMore)
}
