package relay

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_FixedWidthWithinRange(t *testing.T) {
	gen := NewCodeGenerator(1000, 9999)

	for i := 0; i < 1000; i++ {
		code := gen.Generate()
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1000)
		require.LessOrEqual(t, n, 9999)
	}
}

func TestCodeGenerator_PadsNarrowRanges(t *testing.T) {
	gen := NewCodeGenerator(0, 99)

	for i := 0; i < 200; i++ {
		code := gen.Generate()
		require.Len(t, code, 2, "codes keep the width of the range maximum")
	}
}

func TestCodeGenerator_SpaceSize(t *testing.T) {
	assert.Equal(t, 9000, NewCodeGenerator(1000, 9999).SpaceSize())
	assert.Equal(t, 3, NewCodeGenerator(10, 12).SpaceSize())
	assert.Equal(t, 1, NewCodeGenerator(7, 7).SpaceSize())
}

func TestCodeGenerator_CoversSmallSpace(t *testing.T) {
	gen := NewCodeGenerator(10, 12)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[gen.Generate()] = true
	}
	assert.Len(t, seen, 3, "every code in the range should eventually appear")
}
