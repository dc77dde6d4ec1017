package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sepsisai/clinical-api/pkg/errors"
)

// The seven vital signs every assessment requires, in display and
// rule-evaluation order.
const (
	VitalHR        = "HR"
	VitalO2Sat     = "O2Sat"
	VitalResp      = "Resp"
	VitalTemp      = "Temp"
	VitalMAP       = "MAP"
	VitalWBC       = "WBC"
	VitalPlatelets = "Platelets"
)

// VitalSignNames lists the required fields in canonical order.
var VitalSignNames = []string{
	VitalHR, VitalO2Sat, VitalResp, VitalTemp, VitalMAP, VitalWBC, VitalPlatelets,
}

// VitalSigns is an immutable record of one set of measurements. Every
// field is present and finite; construction through ParseVitalSigns
// fails otherwise.
type VitalSigns struct {
	HR        float64 `json:"HR"`
	O2Sat     float64 `json:"O2Sat"`
	Resp      float64 `json:"Resp"`
	Temp      float64 `json:"Temp"`
	MAP       float64 `json:"MAP"`
	WBC       float64 `json:"WBC"`
	Platelets float64 `json:"Platelets"`
}

// VitalReading pairs a vital-sign name with its value.
type VitalReading struct {
	Name  string
	Value float64
}

// ParseVitalSigns converts raw form input into a VitalSigns value.
// All-or-nothing: any missing, empty or non-numeric field rejects the
// whole submission with a validation error.
func ParseVitalSigns(raw map[string]string) (VitalSigns, error) {
	parsed := make(map[string]float64, len(VitalSignNames))
	var bad []string

	for _, name := range VitalSignNames {
		text, ok := raw[name]
		if !ok || strings.TrimSpace(text) == "" {
			bad = append(bad, name)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, name)
			continue
		}
		parsed[name] = v
	}

	if len(bad) > 0 {
		return VitalSigns{}, errors.NewValidation(
			fmt.Sprintf("invalid vital signs: %s", strings.Join(bad, ", ")), nil)
	}

	return VitalSigns{
		HR:        parsed[VitalHR],
		O2Sat:     parsed[VitalO2Sat],
		Resp:      parsed[VitalResp],
		Temp:      parsed[VitalTemp],
		MAP:       parsed[VitalMAP],
		WBC:       parsed[VitalWBC],
		Platelets: parsed[VitalPlatelets],
	}, nil
}

// Readings returns the measurements in canonical order, for prompts
// and reports.
func (v VitalSigns) Readings() []VitalReading {
	return []VitalReading{
		{VitalHR, v.HR},
		{VitalO2Sat, v.O2Sat},
		{VitalResp, v.Resp},
		{VitalTemp, v.Temp},
		{VitalMAP, v.MAP},
		{VitalWBC, v.WBC},
		{VitalPlatelets, v.Platelets},
	}
}
