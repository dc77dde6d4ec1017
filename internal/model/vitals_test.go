package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepsisai/clinical-api/pkg/errors"
)

func validRawVitals() map[string]string {
	return map[string]string{
		"HR":        "88",
		"O2Sat":     "97",
		"Resp":      "18",
		"Temp":      "37.0",
		"MAP":       "80",
		"WBC":       "8",
		"Platelets": "250",
	}
}

func TestParseVitalSigns(t *testing.T) {
	v, err := ParseVitalSigns(validRawVitals())
	require.NoError(t, err)
	assert.Equal(t, 88.0, v.HR)
	assert.Equal(t, 37.0, v.Temp)
	assert.Equal(t, 250.0, v.Platelets)
}

func TestParseVitalSignsTrimsWhitespace(t *testing.T) {
	raw := validRawVitals()
	raw["HR"] = "  92 "

	v, err := ParseVitalSigns(raw)
	require.NoError(t, err)
	assert.Equal(t, 92.0, v.HR)
}

func TestParseVitalSignsAllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing field", func(raw map[string]string) { delete(raw, "MAP") }},
		{"empty field", func(raw map[string]string) { raw["WBC"] = "" }},
		{"blank field", func(raw map[string]string) { raw["Temp"] = "   " }},
		{"non-numeric", func(raw map[string]string) { raw["HR"] = "fast" }},
		{"nan", func(raw map[string]string) { raw["Resp"] = "NaN" }},
		{"infinity", func(raw map[string]string) { raw["Platelets"] = "+Inf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRawVitals()
			tt.mutate(raw)

			_, err := ParseVitalSigns(raw)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestParseVitalSignsNamesEveryBadField(t *testing.T) {
	raw := validRawVitals()
	raw["HR"] = "x"
	delete(raw, "Platelets")

	_, err := ParseVitalSigns(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HR")
	assert.Contains(t, err.Error(), "Platelets")
}

func TestReadingsCanonicalOrder(t *testing.T) {
	v, err := ParseVitalSigns(validRawVitals())
	require.NoError(t, err)

	readings := v.Readings()
	require.Len(t, readings, len(VitalSignNames))
	for i, r := range readings {
		assert.Equal(t, VitalSignNames[i], r.Name)
	}
}

func TestSeverityForScore(t *testing.T) {
	assert.Equal(t, SeverityLow, SeverityForScore(0))
	assert.Equal(t, SeverityLow, SeverityForScore(40))
	assert.Equal(t, SeverityModerate, SeverityForScore(41))
	assert.Equal(t, SeverityModerate, SeverityForScore(70))
	assert.Equal(t, SeverityHigh, SeverityForScore(71))
	assert.Equal(t, SeverityHigh, SeverityForScore(100))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "doc_example_org", NormalizeEmail("doc@example.org"))
	assert.Equal(t, "a_b_c_d", NormalizeEmail("a.b+c@d"))
	assert.Equal(t, "Doc123", NormalizeEmail("Doc123"))
}

func TestRecordCategoryValid(t *testing.T) {
	assert.True(t, CategoryAll.Valid())
	assert.True(t, CategoryHighRisk.Valid())
	assert.False(t, RecordCategory("everything").Valid())
	assert.False(t, RecordCategory("").Valid())
}
