package relay

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strconv"
)

// CodeGenerator mints fixed-width numeric room codes drawn uniformly
// from [min, max]. It does not guarantee uniqueness; the RoomStore
// re-rolls on collision.
type CodeGenerator struct {
	min   int
	max   int
	width int
}

// NewCodeGenerator builds a generator for the inclusive range
// [min, max]. The default production range 1000..9999 yields the
// four-digit codes shown on screens.
func NewCodeGenerator(min, max int) *CodeGenerator {
	if min < 0 || max < min {
		log.Panicf("invalid room code range [%d, %d]", min, max)
	}
	return &CodeGenerator{min: min, max: max, width: len(strconv.Itoa(max))}
}

// Generate returns one random code. It always succeeds.
func (g *CodeGenerator) Generate() string {
	return fmt.Sprintf("%0*d", g.width, g.min+randomInt(g.max-g.min+1))
}

// SpaceSize is the number of distinct codes the generator can produce.
// The RoomStore uses it to refuse creation instead of looping when the
// space is exhausted.
func (g *CodeGenerator) SpaceSize() int {
	return g.max - g.min + 1
}

// randomInt returns a cryptographically secure random int in [0, n).
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		log.Panic("failed to generate random index:", err)
	}
	return int(v.Int64())
}
