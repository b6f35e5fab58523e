package lingua_test

import (
	"testing"

	"github.com/fwojciec/lingua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParaphrasePrompt(t *testing.T) {
	t.Parallel()

	got, err := lingua.ParaphrasePrompt("  i has a apple  ")
	require.NoError(t, err)
	assert.Equal(t, "Paraphrase the following text professionally: i has a apple", got)

	_, err = lingua.ParaphrasePrompt("   ")
	assert.ErrorIs(t, err, lingua.ErrValidation)
}

func TestFormulaPrompt(t *testing.T) {
	t.Parallel()

	got, err := lingua.FormulaPrompt("sum all values in column A")
	require.NoError(t, err)
	assert.Equal(t, "Generate an Excel formula for: sum all values in column A. Provide the formula and a brief explanation.", got)

	_, err = lingua.FormulaPrompt("")
	assert.ErrorIs(t, err, lingua.ErrValidation)
}
