package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestSuggestEmptyInput(t *testing.T) {
	out := Suggest(PrescriptionInput{})

	require.Len(t, out, 2)

	assert.Equal(t, "Single Vision", out[0].LensType)
	assert.Equal(t, MaterialCR39, out[0].Material)
	assert.Equal(t, []Coating{CoatingAntiReflective}, out[0].Coatings)
	assert.Equal(t, PriceRange{Min: 900, Max: 2000}, out[0].PriceRange)
	assert.Equal(t, PriorityPrimary, out[0].Priority)

	assert.Equal(t, "Single Vision (Photochromic)", out[1].LensType)
	assert.Equal(t, MaterialCR39, out[1].Material)
	assert.Equal(t, []Coating{CoatingAntiReflective, CoatingPhotochromic, CoatingHardCoat}, out[1].Coatings)
	assert.Equal(t, PriorityOptional, out[1].Priority)
}

func TestSuggestHighMyopiaOfficeWorker(t *testing.T) {
	out := Suggest(PrescriptionInput{
		RightSphere: fptr(-7.5),
		LeftSphere:  fptr(-7.0),
		PatientAge:  iptr(30),
		Lifestyle:   LifestyleOffice,
	})

	require.NotEmpty(t, out)
	primary := out[0]
	assert.Equal(t, "Single Vision", primary.LensType)
	assert.Equal(t, MaterialHiIndex174, primary.Material)
	assert.Equal(t, []Coating{CoatingAntiReflective, CoatingBlueCut, CoatingHardCoat}, primary.Coatings)
	assert.Equal(t, PriceRange{Min: 7200, Max: 14400}, primary.PriceRange)

	// Already the strongest material, so no further Hi-Index upgrade and no
	// separate Blue Cut entry since the primary carries the coating.
	for _, s := range out[1:] {
		assert.NotEqual(t, "Single Vision", s.LensType, "unexpected extra plain single-vision entry: %+v", s)
	}
	require.Len(t, out, 2)
	assert.Equal(t, "Single Vision (Photochromic)", out[1].LensType)
	assert.Equal(t, PriorityOptional, out[1].Priority)
}

func TestSuggestPresbyopiaOver40(t *testing.T) {
	out := Suggest(PrescriptionInput{
		RightSphere: fptr(-1.0),
		RightAdd:    fptr(2.0),
		LeftAdd:     fptr(2.0),
		PatientAge:  iptr(55),
		Lifestyle:   LifestyleGeneral,
	})

	require.Len(t, out, 3)

	assert.Equal(t, "Progressive", out[0].LensType)
	assert.Equal(t, MaterialCR39, out[0].Material)
	assert.Equal(t, []Coating{CoatingAntiReflective}, out[0].Coatings)
	assert.Equal(t, PriorityPrimary, out[0].Priority)

	assert.Equal(t, "Bifocal (Kryptok / D-Segment)", out[1].LensType)
	assert.Equal(t, MaterialCR39, out[1].Material)
	assert.Equal(t, PriorityOptional, out[1].Priority)

	assert.Equal(t, "Progressive (Photochromic)", out[2].LensType)
	assert.Equal(t, PriorityOptional, out[2].Priority)

	for _, s := range out {
		assert.NotEqual(t, PriorityUpgrade, s.Priority, "no upgrade expected at 1.00D sphere")
	}
}

func TestSuggestChildPolycarbonate(t *testing.T) {
	out := Suggest(PrescriptionInput{
		RightSphere: fptr(-1.0),
		PatientAge:  iptr(10),
		Lifestyle:   LifestyleGeneral,
	})

	require.Len(t, out, 2)
	assert.Equal(t, "Single Vision", out[0].LensType)
	assert.Equal(t, MaterialPolycarbonate, out[0].Material)
	assert.Equal(t, PriorityPrimary, out[0].Priority)

	primaries := 0
	for _, s := range out {
		if s.Priority == PriorityPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries, "safety-lens entry must not duplicate the polycarbonate primary")
}

func TestSuggestDriverAstigmatism(t *testing.T) {
	out := Suggest(PrescriptionInput{
		RightCylinder: fptr(-2.5),
		PatientAge:    iptr(35),
		Lifestyle:     LifestyleDriver,
	})

	var aspheric, photochromic *Suggestion
	for i := range out {
		switch out[i].LensType {
		case "Single Vision (Aspheric)":
			aspheric = &out[i]
		case "Single Vision (Photochromic)":
			photochromic = &out[i]
		}
	}

	require.NotNil(t, aspheric, "aspheric upgrade expected above 2.00D cylinder")
	assert.Equal(t, PriorityUpgrade, aspheric.Priority)
	// 1.3x/1.5x on the CR-39 single-vision base, plus AR + Photochromic + Hard Coat.
	assert.Equal(t, PriceRange{Min: 2750, Max: 6000}, aspheric.PriceRange)

	require.NotNil(t, photochromic)
	assert.Equal(t, PriorityPrimary, photochromic.Priority, "drivers get photochromic as a primary option")
	assert.Equal(t, []Coating{CoatingAntiReflective, CoatingPhotochromic, CoatingHardCoat}, photochromic.Coatings)
}

func TestSuggestAddUnderForty(t *testing.T) {
	out := Suggest(PrescriptionInput{
		RightAdd:   fptr(1.5),
		PatientAge: iptr(32),
		Lifestyle:  LifestyleStudent,
	})

	require.Len(t, out, 3)
	assert.Equal(t, "Bifocal (Kryptok / D-Segment)", out[0].LensType)
	assert.Equal(t, MaterialCR39, out[0].Material)
	assert.Equal(t, PriorityPrimary, out[0].Priority)
	assert.Contains(t, out[0].Coatings, CoatingBlueCut)

	assert.Equal(t, "Progressive", out[1].LensType)
	assert.Equal(t, PriorityUpgrade, out[1].Priority)

	assert.Equal(t, "Progressive (Photochromic)", out[2].LensType)
	assert.Equal(t, PriorityOptional, out[2].Priority)
}

func TestSuggestHiIndexUpgradeTier(t *testing.T) {
	t.Run("adult between four and six diopters keeps both tiers", func(t *testing.T) {
		out := Suggest(PrescriptionInput{RightSphere: fptr(-5.0)})

		require.NotEmpty(t, out)
		assert.Equal(t, MaterialHiIndex167, out[0].Material)
		assert.Equal(t, PriorityPrimary, out[0].Priority)

		var upgrade *Suggestion
		for i := range out {
			if out[i].LensType == "Single Vision" && out[i].Priority == PriorityUpgrade {
				upgrade = &out[i]
			}
		}
		require.NotNil(t, upgrade)
		assert.Equal(t, MaterialHiIndex167, upgrade.Material)
	})

	t.Run("child with very high power upgrades past polycarbonate", func(t *testing.T) {
		out := Suggest(PrescriptionInput{
			RightSphere: fptr(-7.0),
			PatientAge:  iptr(12),
		})

		require.NotEmpty(t, out)
		assert.Equal(t, MaterialPolycarbonate, out[0].Material)

		var upgrade *Suggestion
		for i := range out {
			if out[i].LensType == "Single Vision" && out[i].Priority == PriorityUpgrade {
				upgrade = &out[i]
			}
		}
		require.NotNil(t, upgrade)
		assert.Equal(t, MaterialHiIndex174, upgrade.Material)
	})
}

func TestSuggestDeterminism(t *testing.T) {
	rx := PrescriptionInput{
		RightSphere:   fptr(-3.25),
		LeftSphere:    fptr(-2.75),
		RightCylinder: fptr(-2.25),
		RightAdd:      fptr(1.75),
		PatientAge:    iptr(48),
		Lifestyle:     LifestyleOffice,
	}

	first := Suggest(rx)
	second := Suggest(rx)
	require.Equal(t, first, second, "identical input must produce identical output, ids included")

	assert.Equal(t, 1, minID(first), "ids restart on every call")
}

func minID(out []Suggestion) int {
	min := out[0].ID
	for _, s := range out[1:] {
		if s.ID < min {
			min = s.ID
		}
	}
	return min
}

func invariantInputs() map[string]PrescriptionInput {
	return map[string]PrescriptionInput{
		"empty":             {},
		"high myopia":       {RightSphere: fptr(-7.5), LeftSphere: fptr(-7.0), PatientAge: iptr(30), Lifestyle: LifestyleOffice},
		"presbyopia":        {RightSphere: fptr(-1.0), RightAdd: fptr(2.0), LeftAdd: fptr(2.0), PatientAge: iptr(55)},
		"child":             {RightSphere: fptr(-1.0), PatientAge: iptr(10)},
		"child high power":  {RightSphere: fptr(-7.0), PatientAge: iptr(12), Lifestyle: LifestyleStudent},
		"driver":            {RightCylinder: fptr(-2.5), PatientAge: iptr(35), Lifestyle: LifestyleDriver},
		"outdoor":           {RightSphere: fptr(-4.5), Lifestyle: LifestyleOutdoor},
		"early add":         {RightAdd: fptr(1.5), PatientAge: iptr(32), Lifestyle: LifestyleStudent},
		"screen by age":     {RightSphere: fptr(-0.5), PatientAge: iptr(28)},
		"mixed everything":  {RightSphere: fptr(-5.5), RightCylinder: fptr(-3.0), RightAdd: fptr(2.25), PatientAge: iptr(62), Lifestyle: LifestyleOutdoor},
		"positive spheres":  {RightSphere: fptr(3.5), LeftSphere: fptr(4.25), PatientAge: iptr(70), Lifestyle: LifestyleGeneral},
		"add without age":   {RightAdd: fptr(2.0)},
		"negative age":      {RightSphere: fptr(-2.0), PatientAge: iptr(-1)},
		"zero add is no add": {RightAdd: fptr(0), PatientAge: iptr(50)},
	}
}

func TestSuggestInvariants(t *testing.T) {
	for name, rx := range invariantInputs() {
		t.Run(name, func(t *testing.T) {
			out := Suggest(rx)

			require.NotEmpty(t, out)
			assert.Equal(t, PriorityPrimary, out[0].Priority, "first suggestion must be primary")

			seenIDs := make(map[int]bool)
			seenTriples := make(map[string]bool)
			for i, s := range out {
				assert.False(t, seenIDs[s.ID], "duplicate id %d", s.ID)
				seenIDs[s.ID] = true

				triple := s.LensType + "|" + string(s.Material) + "|" + string(s.Priority)
				assert.False(t, seenTriples[triple], "duplicate triple %s", triple)
				seenTriples[triple] = true

				if i > 0 {
					assert.LessOrEqual(t, out[i-1].Priority.Rank(), s.Priority.Rank(), "priority order broken at %d", i)
				}

				assert.NotEmpty(t, s.Reason)
				assert.GreaterOrEqual(t, s.PriceRange.Min, 0)
				assert.LessOrEqual(t, s.PriceRange.Min, s.PriceRange.Max)

				assertCoatingOrder(t, s.Coatings)
			}
		})
	}
}

// assertCoatingOrder checks the fixed append order AR, Blue Cut, Photochromic,
// Hard Coat with no repeats.
func assertCoatingOrder(t *testing.T, coatings []Coating) {
	t.Helper()

	rank := map[Coating]int{
		CoatingAntiReflective: 0,
		CoatingBlueCut:        1,
		CoatingPhotochromic:   2,
		CoatingHardCoat:       3,
	}
	last := -1
	for _, c := range coatings {
		r, ok := rank[c]
		require.True(t, ok, "unknown coating %q", c)
		assert.Greater(t, r, last, "coating %q out of order in %v", c, coatings)
		last = r
	}
	if len(coatings) > 0 {
		assert.Equal(t, CoatingAntiReflective, coatings[0])
	}
}

func TestPickMaterial(t *testing.T) {
	tests := []struct {
		name    string
		maxSph  float64
		isChild bool
		want    Material
	}{
		{"child overrides power", 7.5, true, MaterialPolycarbonate},
		{"very high power", 6.25, false, MaterialHiIndex174},
		{"high power", 4.5, false, MaterialHiIndex167},
		{"boundary six stays 1.67", 6.0, false, MaterialHiIndex167},
		{"moderate power", 2.5, false, MaterialPolycarbonate},
		{"boundary four stays polycarbonate", 4.0, false, MaterialPolycarbonate},
		{"low power", 1.0, false, MaterialCR39},
		{"boundary two stays CR-39", 2.0, false, MaterialCR39},
		{"zero power", 0, false, MaterialCR39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickMaterial(tt.maxSph, tt.isChild))
		})
	}
}

func TestPickCoatings(t *testing.T) {
	tests := []struct {
		name          string
		screen        bool
		outdoor       bool
		forceHardCoat bool
		want          []Coating
	}{
		{"base", false, false, false, []Coating{CoatingAntiReflective}},
		{"screen user", true, false, false, []Coating{CoatingAntiReflective, CoatingBlueCut, CoatingHardCoat}},
		{"outdoor", false, true, false, []Coating{CoatingAntiReflective, CoatingPhotochromic, CoatingHardCoat}},
		{"screen and outdoor", true, true, false, []Coating{CoatingAntiReflective, CoatingBlueCut, CoatingPhotochromic, CoatingHardCoat}},
		{"forced hard coat only", false, false, true, []Coating{CoatingAntiReflective, CoatingHardCoat}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickCoatings(tt.screen, tt.outdoor, tt.forceHardCoat))
		})
	}
}

func TestNormalizeDerivedFlags(t *testing.T) {
	t.Run("absent lifestyle defaults to general", func(t *testing.T) {
		p := normalize(PrescriptionInput{})
		assert.Equal(t, LifestyleGeneral, p.lifestyle)
		assert.False(t, p.isScreenUser, "age unknown means no screen flag for general lifestyle")
	})

	t.Run("general lifestyle in working age is screen user", func(t *testing.T) {
		p := normalize(PrescriptionInput{PatientAge: iptr(20), Lifestyle: LifestyleGeneral})
		assert.True(t, p.isScreenUser)
		p = normalize(PrescriptionInput{PatientAge: iptr(45)})
		assert.True(t, p.isScreenUser)
		p = normalize(PrescriptionInput{PatientAge: iptr(46)})
		assert.False(t, p.isScreenUser)
	})

	t.Run("magnitude uses the stronger eye", func(t *testing.T) {
		p := normalize(PrescriptionInput{RightSphere: fptr(2.0), LeftSphere: fptr(-6.5)})
		assert.Equal(t, 6.5, p.maxSph)
	})

	t.Run("zero add means no addition", func(t *testing.T) {
		p := normalize(PrescriptionInput{RightAdd: fptr(0), LeftAdd: fptr(0)})
		assert.False(t, p.addPresent)
	})
}
