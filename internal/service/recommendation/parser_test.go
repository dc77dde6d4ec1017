package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSection(t *testing.T) {
	text := "NUTRITIONAL INTERVENTION\n- eat\n- drink\n\n" +
		"PHYSICAL THERAPY PROTOCOL\n- move\n\n" +
		"PHARMACOLOGICAL MANAGEMENT\n- dose"

	nutrition, ok := extractSection(text, headerNutrition)
	require.True(t, ok)
	assert.Equal(t, "- eat\n- drink", nutrition)

	therapy, ok := extractSection(text, headerTherapy)
	require.True(t, ok)
	assert.Equal(t, "- move", therapy)

	meds, ok := extractSection(text, headerPharmacology)
	require.True(t, ok)
	assert.Equal(t, "- dose", meds)
}

func TestExtractSectionCaseInsensitive(t *testing.T) {
	text := "nutritional intervention\n- eat\n\nPhysical Therapy Protocol\n- move"

	nutrition, ok := extractSection(text, headerNutrition)
	require.True(t, ok)
	assert.Equal(t, "- eat", nutrition)

	therapy, ok := extractSection(text, headerTherapy)
	require.True(t, ok)
	assert.Equal(t, "- move", therapy)
}

func TestExtractSectionMissingHeader(t *testing.T) {
	_, ok := extractSection("no sections here", headerNutrition)
	assert.False(t, ok)
}

func TestExtractSectionRunsToEndOfText(t *testing.T) {
	text := "PHARMACOLOGICAL MANAGEMENT\n- dose one\n- dose two"

	meds, ok := extractSection(text, headerPharmacology)
	require.True(t, ok)
	assert.Equal(t, "- dose one\n- dose two", meds)
}

func TestExtractSectionOutOfOrderHeaders(t *testing.T) {
	text := "PHARMACOLOGICAL MANAGEMENT\n- dose\n\nNUTRITIONAL INTERVENTION\n- eat"

	meds, ok := extractSection(text, headerPharmacology)
	require.True(t, ok)
	assert.Equal(t, "- dose", meds)

	nutrition, ok := extractSection(text, headerNutrition)
	require.True(t, ok)
	assert.Equal(t, "- eat", nutrition)
}

func TestExtractSectionEmptyBody(t *testing.T) {
	text := "NUTRITIONAL INTERVENTION\nPHYSICAL THERAPY PROTOCOL\n- move"

	nutrition, ok := extractSection(text, headerNutrition)
	require.True(t, ok)
	assert.Empty(t, nutrition)
}
