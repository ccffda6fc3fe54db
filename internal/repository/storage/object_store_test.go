package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBasePath_Unique(t *testing.T) {
	p := NewBasePath(3, 12, "invoices", 45)
	assert.True(t, strings.HasPrefix(p, "3/sites/12/invoices/45/"), p)
	assert.NotEqual(t, p, NewBasePath(3, 12, "invoices", 45))
}

func TestVariantPath(t *testing.T) {
	base := NewBasePath(1, 2, "invoices", 3)
	assert.True(t, strings.HasPrefix(base, "1/sites/2/invoices/3/"), base)
	assert.Equal(t, base+"_thumb.jpg", VariantPath(base, "thumb", ".jpg"))
}
