package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	p := PageRequest{}
	p.DefaultPage()
	assert.Equal(t, PageRequest{Limit: 20, Offset: 0}, p)

	p = PageRequest{Limit: 50, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, PageRequest{Limit: 50, Offset: 0}, p)
}
