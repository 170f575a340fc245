package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestParseRxStandardSlip(t *testing.T) {
	lines := []string{
		"Dr. Mehta Eye Clinic",
		"OD: -2.50 -0.75 x 180",
		"OS: -2.25 / -0.50 X 175",
		"ADD: +2.00",
		"PD 62",
	}

	rx := parseRx(lines)

	assert.Equal(t, fptr(-2.50), rx.RightSphere)
	assert.Equal(t, fptr(-0.75), rx.RightCylinder)
	assert.Equal(t, iptr(180), rx.RightAxis)
	assert.Equal(t, fptr(-2.25), rx.LeftSphere)
	assert.Equal(t, fptr(-0.50), rx.LeftCylinder)
	assert.Equal(t, iptr(175), rx.LeftAxis)
	assert.Equal(t, fptr(62.0), rx.PD)

	// A single ADD line fills both eyes.
	assert.Equal(t, fptr(2.0), rx.RightAdd)
	assert.Equal(t, fptr(2.0), rx.LeftAdd)

	assert.Equal(t, 9, rx.FieldsFound())
}

func TestParseRxPlano(t *testing.T) {
	rx := parseRx([]string{"OD PLANO", "OS: PL"})

	require.NotNil(t, rx.RightSphere)
	require.NotNil(t, rx.LeftSphere)
	assert.Equal(t, 0.0, *rx.RightSphere)
	assert.Equal(t, 0.0, *rx.LeftSphere)
	assert.Nil(t, rx.RightCylinder)
	assert.Equal(t, 2, rx.FieldsFound())
}

func TestParseRxDropsImplausibleValues(t *testing.T) {
	lines := []string{
		"OD -25.00 -0.75 X 270",
		"PD 30",
		"ADD 9.50",
	}

	rx := parseRx(lines)

	assert.Nil(t, rx.RightSphere, "sphere beyond -20D must be dropped")
	assert.Nil(t, rx.RightAxis, "axis above 180 must be dropped")
	assert.Nil(t, rx.PD, "PD below 40mm must be dropped")
	assert.Nil(t, rx.RightAdd, "ADD above 4D must be dropped")
	assert.Equal(t, fptr(-0.75), rx.RightCylinder)
	assert.Equal(t, 1, rx.FieldsFound())
}

func TestParseRxBareAxisWithoutSeparator(t *testing.T) {
	rx := parseRx([]string{"RE -1.00 -0.50 90"})

	assert.Equal(t, fptr(-1.0), rx.RightSphere)
	assert.Equal(t, fptr(-0.5), rx.RightCylinder)
	assert.Equal(t, iptr(90), rx.RightAxis)
}

func TestParseRxLowercaseAndLabelVariants(t *testing.T) {
	lines := []string{
		"od: -1.25",
		"add 1.50",
		"p.d. 58.5",
	}

	rx := parseRx(lines)

	assert.Equal(t, fptr(-1.25), rx.RightSphere)
	assert.Equal(t, fptr(1.5), rx.RightAdd)
	assert.Equal(t, fptr(1.5), rx.LeftAdd)
	assert.Equal(t, fptr(58.5), rx.PD)
}

func TestParseRxIgnoresClinicNoise(t *testing.T) {
	lines := []string{
		"",
		"NETRA EYE HOSPITAL",
		"DATE: 12/03/2026",
		"REMARKS: review after 6 months",
	}

	rx := parseRx(lines)

	assert.Equal(t, 0, rx.FieldsFound())
}
