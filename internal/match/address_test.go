package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	a := NormalizeAddress("123 North Main Street, Anytown, California 90210-1234")

	assert.Equal(t, "123", a.HouseNumber)
	assert.Equal(t, "90210", a.ZIP5)
	assert.Contains(t, a.TokenSet, "n")
	assert.Contains(t, a.TokenSet, "st")
	assert.Contains(t, a.TokenSet, "ca")
	assert.NotContains(t, a.TokenSet, "street")
	assert.NotContains(t, a.TokenSet, "north")
}

func TestNormalizeAddressEmpty(t *testing.T) {
	a := NormalizeAddress("   ")
	assert.Empty(t, a.Tokens)
	assert.Equal(t, "", a.ZIP5)
	assert.Equal(t, "", a.HouseNumber)
}

func TestAbbreviationsAlign(t *testing.T) {
	// Directional and suffix variants must normalize to identical sets.
	a := NormalizeAddress("456 N Main St Anytown CA 90210")
	b := NormalizeAddress("456 North Main Street Anytown California 90210-4321")

	assert.Equal(t, a.TokenSet, b.TokenSet)
	assert.Equal(t, 1.0, Jaccard(a.TokenSet, b.TokenSet))
}

func TestJaccard(t *testing.T) {
	a := NormalizeAddress("123 Main St")
	b := NormalizeAddress("Totally Different Place")
	assert.Equal(t, 0.0, Jaccard(a.TokenSet, b.TokenSet))

	assert.Equal(t, 0.0, Jaccard(nil, a.TokenSet))
	assert.Equal(t, 0.0, Jaccard(a.TokenSet, nil))

	half := Jaccard(
		NormalizeAddress("123 Main St Anytown").TokenSet,
		NormalizeAddress("123 Main St Elsewhere").TokenSet,
	)
	assert.InDelta(t, 0.6, half, 0.0001) // 3 shared of 5 distinct
}
