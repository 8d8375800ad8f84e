package dice_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

// fixedSource returns the queued values in order, cycling when exhausted.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) Intn(n int) int {
	v := f.vals[f.i%len(f.vals)] % n
	f.i++
	return v
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6 x 100", Dice: []int{4, 5}, Multiplier: 100}
	assert.Equal(t, 900, r.Total())
	assert.Equal(t, 9, r.Sum())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6 x 100", Dice: []int{4, 5}, Multiplier: 100}
	assert.Equal(t, "2d6 x 100 → [4 5] x100 = 900", r.String())

	plain := dice.RollResult{Expression: "1d6", Dice: []int{3}, Multiplier: 1}
	assert.Equal(t, "1d6 → [3] = 3", plain.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}, Multiplier: 1}
	assert.Panics(t, func() { _ = r.String() })
}

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in                  string
		count, sides, mult int
	}{
		{"2d6", 2, 6, 1},
		{"1d1", 1, 1, 1},
		{"2d6 x 100", 2, 6, 100},
		{"5d6x10", 5, 6, 10},
		{"  3D10 X 5 ", 3, 10, 5},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mult, e.Multiplier)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "d6", "0d6", "2d0", "2d6+3", "2d6 x 0", "two d six", "2d6 x", "101d6", "1d1001"} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dice.ErrInvalidExpression), "error must wrap ErrInvalidExpression")
			assert.False(t, dice.Valid(in))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
	assert.NotPanics(t, func() { dice.MustParse("1d6") })
}

func TestRoll_UsesSource(t *testing.T) {
	src := &fixedSource{vals: []int{0, 5}}
	r := dice.Roll(dice.MustParse("2d6 x 10"), src)
	assert.Equal(t, []int{1, 6}, r.Dice)
	assert.Equal(t, 70, r.Total())
}

// 2d6 x 100 always lands on a multiple of 100 in [200, 1200].
func TestRollExpr_CashMultiplier(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 500; i++ {
		r, err := dice.RollExpr("2d6 x 100", src)
		require.NoError(t, err)
		total := r.Total()
		assert.Zero(t, total%100)
		assert.GreaterOrEqual(t, total, 200)
		assert.LessOrEqual(t, total, 1200)
	}
}

func TestRollExpr_Property_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, dice.MaxCount).Draw(rt, "n")
		m := rapid.IntRange(1, 100).Draw(rt, "m")
		k := rapid.IntRange(1, 1000).Draw(rt, "k")
		seed := rapid.Int64().Draw(rt, "seed")

		expr := fmt.Sprintf("%dd%d x %d", n, m, k)
		r, err := dice.RollExpr(expr, dice.NewSeededSource(seed))
		require.NoError(rt, err)
		require.Len(rt, r.Dice, n)
		for _, d := range r.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, m)
		}
		assert.GreaterOrEqual(rt, r.Total(), n*k)
		assert.LessOrEqual(rt, r.Total(), n*m*k)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(20), b.Intn(20))
	}
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSources_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestLoggedRoller_LogsEveryRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(7), zap.New(core))

	r, err := roller.RollExpr("3d6 x 2")
	require.NoError(t, err)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "3d6 x 2", fields["expression"])
	assert.Equal(t, int64(2), fields["multiplier"])
	assert.Equal(t, int64(r.Total()), fields["total"])

	_, err = roller.RollExpr("bad")
	require.ErrorIs(t, err, dice.ErrInvalidExpression)
	assert.Equal(t, 1, logs.FilterMessage("dice expression rejected").Len())
}
