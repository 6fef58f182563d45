package system_adapter

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Clock - системные часы в часовом поясе сервиса.
type Clock struct {
	loc *time.Location
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Границы отображаемого номера договора.
const (
	MinUniqueNumber = 100000
	MaxUniqueNumber = 999999
)

// RandomNumberGenerator выдает номера договоров из [MinUniqueNumber, MaxUniqueNumber].
// Номера могут повторяться.
type RandomNumberGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomNumberGenerator(seed uint64) *RandomNumberGenerator {
	return &RandomNumberGenerator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *RandomNumberGenerator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return MinUniqueNumber + g.rnd.IntN(MaxUniqueNumber-MinUniqueNumber+1)
}
