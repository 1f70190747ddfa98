package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// digits kept when printing coordinates and settings in run summaries
const DisplayPrecision = 4

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

// Renders a float rounded to DisplayPrecision decimals without trailing zeros
func FmtFloat(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	return decimal.NewFromFloat(value).Round(DisplayPrecision).String()
}

func FmtFloat32(value float32) string {
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return strconv.FormatFloat(float64(value), 'g', -1, 32)
	}
	return decimal.NewFromFloat32(value).Round(DisplayPrecision).String()
}

// Renders a vector as [x, y, z]
func FmtVec3(value [3]float32) string {
	parts := make([]string, 3)
	for i, component := range value {
		parts[i] = FmtFloat32(component)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
