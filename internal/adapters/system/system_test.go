package system_adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomNumberGenerator_Range(t *testing.T) {
	g := NewRandomNumberGenerator(42)
	for i := 0; i < 10000; i++ {
		n := g.Next()
		assert.GreaterOrEqual(t, n, MinUniqueNumber)
		assert.LessOrEqual(t, n, MaxUniqueNumber)
	}
}

func TestRandomNumberGenerator_SeedIsDeterministic(t *testing.T) {
	a, b := NewRandomNumberGenerator(7), NewRandomNumberGenerator(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestClock_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	assert.Equal(t, loc, NewClock(loc).Now().Location())
	assert.Equal(t, time.UTC, NewClock(nil).Now().Location())
}
