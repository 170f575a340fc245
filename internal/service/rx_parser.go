package service

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedRx holds the prescription values extracted from a scanned paper
// prescription. Fields mirror the eye test record so the result can be fed
// straight into a suggestion request. A single ADD line fills both eyes, which
// is how opticians write it.
type ParsedRx struct {
	RightSphere   *float64 `json:"rightSphere,omitempty"`
	RightCylinder *float64 `json:"rightCylinder,omitempty"`
	RightAxis     *int     `json:"rightAxis,omitempty"`
	RightAdd      *float64 `json:"rightAdd,omitempty"`
	LeftSphere    *float64 `json:"leftSphere,omitempty"`
	LeftCylinder  *float64 `json:"leftCylinder,omitempty"`
	LeftAxis      *int     `json:"leftAxis,omitempty"`
	LeftAdd       *float64 `json:"leftAdd,omitempty"`
	PD            *float64 `json:"pd,omitempty"`
}

// FieldsFound counts how many prescription values were extracted.
func (p *ParsedRx) FieldsFound() int {
	n := 0
	for _, v := range []*float64{p.RightSphere, p.RightCylinder, p.RightAdd, p.LeftSphere, p.LeftCylinder, p.LeftAdd, p.PD} {
		if v != nil {
			n++
		}
	}
	for _, v := range []*int{p.RightAxis, p.LeftAxis} {
		if v != nil {
			n++
		}
	}
	return n
}

// Prescription slips are wildly inconsistent, so matching is deliberately
// loose: eye rows are keyed on OD/OS/RE/LE/R/L prefixes, the axis on an "x"
// separator, ADD and PD on their labels.
var (
	rxRightEyeRe = regexp.MustCompile(`^(?:OD|RE|R)\b[:.]?\s*(.*)$`)
	rxLeftEyeRe  = regexp.MustCompile(`^(?:OS|LE|L)\b[:.]?\s*(.*)$`)
	rxAxisRe     = regexp.MustCompile(`[X×]\s*(\d{1,3})`)
	rxNumberRe   = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	rxAddRe      = regexp.MustCompile(`\bADD(?:ITION)?\b\s*[:=]?\s*([-+]?\d+(?:\.\d+)?)`)
	rxPDRe       = regexp.MustCompile(`\bP\.?D\b\.?\s*[:=]?\s*(\d{2}(?:\.\d+)?)`)
)

// parseRx extracts prescription values from detected text lines. Values
// outside the clinically plausible range are dropped rather than guessed at.
func parseRx(lines []string) *ParsedRx {
	rx := &ParsedRx{}

	for _, raw := range lines {
		line := strings.ToUpper(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		if m := rxAddRe.FindStringSubmatch(line); m != nil {
			if v, ok := parseDiopter(m[1], 0, 4); ok {
				rx.RightAdd = &v
				left := v
				rx.LeftAdd = &left
			}
			continue
		}

		if m := rxPDRe.FindStringSubmatch(line); m != nil {
			if v, ok := parseDiopter(m[1], 40, 80); ok {
				rx.PD = &v
			}
			continue
		}

		if m := rxRightEyeRe.FindStringSubmatch(line); m != nil {
			parseEyeRow(m[1], &rx.RightSphere, &rx.RightCylinder, &rx.RightAxis)
			continue
		}
		if m := rxLeftEyeRe.FindStringSubmatch(line); m != nil {
			parseEyeRow(m[1], &rx.LeftSphere, &rx.LeftCylinder, &rx.LeftAxis)
		}
	}

	return rx
}

// parseEyeRow reads "SPH CYL x AXIS" shaped content after an eye prefix,
// e.g. "-2.50 -0.75 x 180" or "-2.50/-0.75X180" or "PLANO".
func parseEyeRow(content string, sphere, cylinder **float64, axis **int) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	// PLANO / PL means zero sphere correction
	if strings.HasPrefix(content, "PLANO") || strings.HasPrefix(content, "PL ") || content == "PL" {
		zero := 0.0
		*sphere = &zero
		return
	}

	if m := rxAxisRe.FindStringSubmatch(content); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= 180 {
			a := v
			*axis = &a
		}
		content = rxAxisRe.ReplaceAllString(content, " ")
	}

	nums := rxNumberRe.FindAllString(content, 3)
	if len(nums) >= 1 {
		if v, ok := parseDiopter(nums[0], -20, 20); ok {
			*sphere = &v
		}
	}
	if len(nums) >= 2 {
		if v, ok := parseDiopter(nums[1], -10, 10); ok {
			*cylinder = &v
		}
	}
	// A bare third integer is an axis written without the "x" separator
	if len(nums) >= 3 && *axis == nil {
		if v, err := strconv.Atoi(nums[2]); err == nil && v >= 0 && v <= 180 {
			a := v
			*axis = &a
		}
	}
}

// parseDiopter parses a decimal and range-checks it.
func parseDiopter(s string, min, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < min || v > max {
		return 0, false
	}
	return v, true
}
