package arith_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/igs/internal/arith"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 + 2", "4"},
		{"2 ^ 3", "8"},
		{"2 ** 3", "8"},
		{"pow(2,3)", "8"},
		{"POW(2, 0.5) * POW(2, 0.5)", "2.0000000000000004"},
		{"7 / 2", "3.5"},
		{"10 - 4 - 3", "3"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"-2 ^ 2", "-4"},
		{"2 ^ -1", "0.5"},
		{"2 ^ 3 ^ 2", "512"},
		{"--3", "3"},
		{"+5", "5"},
		{"1.5e3 + .5", "1500.5"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"67000000 * 2", "134000000"},
		{"-0 * 1", "0"},
		{"1e20", "1e+20"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := arith.Eval(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, arith.Format(v))
		})
	}
}

func TestEvalRejectsNonArithmetic(t *testing.T) {
	inputs := []string{
		"__import__('os')",
		"os.system('ls')",
		"open('/etc/passwd').read()",
		"2 raise 3",
		"2 pow 3",
		"abs(-1)",
		"x + 1",
		"2 +",
		"(2 + 3",
		"2 + 3)",
		"pow(2)",
		"pow 2, 3",
		"1..2",
		"Top result: France - Wikipedia * 2",
		"2 $ 3",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := arith.Eval(in)
			require.Error(t, err)
			var syn *arith.SyntaxError
			assert.True(t, errors.As(err, &syn), "want *SyntaxError, got %T: %v", err, err)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", arith.ErrEmpty},
		{"   ", arith.ErrEmpty},
		{"1 / 0", arith.ErrDivisionByZero},
		{"1 / (2 - 2)", arith.ErrDivisionByZero},
		{"pow(0, -1)", arith.ErrDivisionByZero},
		{"10 ^ 400", arith.ErrNotFinite},
		{"pow(-8, 0.5)", arith.ErrNotFinite},
		{strings.Repeat("1+", arith.MaxExpressionLength) + "1", arith.ErrTooLong},
		{strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100), arith.ErrTooDeep},
	}
	for _, tt := range tests {
		name := tt.expr
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			_, err := arith.Eval(tt.expr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := arith.Eval("2 + abc")
	var syn *arith.SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 4, syn.Pos)
	assert.Contains(t, syn.Error(), `"abc"`)
}
