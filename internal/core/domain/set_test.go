package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wharf/internal/core/domain"
)

func TestSet(t *testing.T) {
	a := domain.MustNewPublicId("acme", "alpha", "0.1.0")
	b := domain.MustNewPublicId("acme", "beta", "0.1.0")
	c := domain.MustNewPublicId("acme", "gamma", "0.1.0")

	s := domain.NewSet(b, a)
	assert.True(t, s.Has(a))
	assert.False(t, s.Has(c))
	assert.Equal(t, 2, s.Len())

	t.Run("Sorted", func(t *testing.T) {
		s := domain.NewSet(c, a, b)
		assert.Equal(t, []domain.PublicId{a, b, c}, s.Sorted())
	})

	t.Run("Diff", func(t *testing.T) {
		d := domain.NewSet(a, b).Diff(domain.NewSet(b, c))
		assert.Equal(t, []domain.PublicId{a}, d.Sorted())
	})

	t.Run("Equal", func(t *testing.T) {
		assert.True(t, domain.NewSet(a, b).Equal(domain.NewSet(b, a)))
		assert.False(t, domain.NewSet(a).Equal(domain.NewSet(b)))
		assert.True(t, domain.NewSet[domain.PublicId]().Equal(nil))
	})

	t.Run("Clone Is Independent", func(t *testing.T) {
		clone := s.Clone()
		clone.Add(c)
		assert.False(t, s.Has(c))
	})
}
