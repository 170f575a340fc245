package lens

import (
	"fmt"
	"math"
	"sort"
)

// Suggest maps a prescription to a ranked, deduplicated list of lens
// suggestions. It is a pure function: no I/O, deterministic for identical
// input, and safe to call concurrently. The returned list is never empty and
// always starts with a PRIMARY suggestion.
func Suggest(rx PrescriptionInput) []Suggestion {
	p := normalize(rx)
	b := newBuilder()

	if p.addPresent {
		if !p.ageKnown || p.age >= 40 {
			suggestProgressive(b, p)
		} else {
			suggestBifocalFirst(b, p)
		}
	} else {
		suggestSingleVision(b, p)
	}

	addAsphericUpgrade(b, p)
	addPhotochromicVariant(b, p)
	addBlueCutOption(b, p)

	out := dedupe(b.out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// profile is the fully defaulted view of a prescription. All optional fields
// are resolved here once so the rules never have to null-check.
type profile struct {
	maxSph     float64
	maxCyl     float64
	addPresent bool
	ageKnown   bool
	age        int
	lifestyle  Lifestyle

	isChild      bool
	isScreenUser bool
	isOutdoor    bool
}

func normalize(rx PrescriptionInput) profile {
	p := profile{lifestyle: rx.Lifestyle}
	if p.lifestyle == "" {
		p.lifestyle = LifestyleGeneral
	}

	p.maxSph = math.Max(magnitude(rx.RightSphere), magnitude(rx.LeftSphere))
	p.maxCyl = math.Max(magnitude(rx.RightCylinder), magnitude(rx.LeftCylinder))
	p.addPresent = positive(rx.RightAdd) || positive(rx.LeftAdd)
	if rx.PatientAge != nil {
		p.ageKnown = true
		p.age = *rx.PatientAge
	}

	p.isChild = p.ageKnown && p.age < 18
	p.isScreenUser = p.lifestyle == LifestyleOffice || p.lifestyle == LifestyleStudent ||
		(p.lifestyle == LifestyleGeneral && p.ageKnown && p.age >= 20 && p.age <= 45)
	p.isOutdoor = p.lifestyle == LifestyleOutdoor || p.lifestyle == LifestyleDriver
	return p
}

// magnitude treats an absent diopter value as zero for max comparisons.
func magnitude(v *float64) float64 {
	if v == nil {
		return 0
	}
	return math.Abs(*v)
}

// positive treats absent and zero ADD power identically.
func positive(v *float64) bool {
	return v != nil && *v > 0
}

// builder accumulates suggestions and hands out ids. The counter is local to
// one Suggest call, so ids restart at 1 on every invocation.
type builder struct {
	nextID int
	out    []Suggestion
}

func newBuilder() *builder {
	return &builder{nextID: 1}
}

func (b *builder) add(s Suggestion) {
	s.ID = b.nextID
	b.nextID++
	b.out = append(b.out, s)
}

// pickMaterial selects the lens material for a given power. Children always
// get impact-resistant polycarbonate regardless of power.
func pickMaterial(maxSph float64, isChild bool) Material {
	switch {
	case isChild:
		return MaterialPolycarbonate
	case maxSph > 6:
		return MaterialHiIndex174
	case maxSph > 4:
		return MaterialHiIndex167
	case maxSph > 2:
		return MaterialPolycarbonate
	default:
		return MaterialCR39
	}
}

// pickCoatings builds the coating list in the fixed display order:
// Anti-Reflective, then Blue Cut, then Photochromic, then Hard Coat.
func pickCoatings(isScreenUser, isOutdoor, forceHardCoat bool) []Coating {
	coatings := []Coating{CoatingAntiReflective}
	if isScreenUser {
		coatings = append(coatings, CoatingBlueCut)
	}
	if isOutdoor {
		coatings = append(coatings, CoatingPhotochromic)
	}
	if forceHardCoat || isScreenUser || isOutdoor {
		coatings = append(coatings, CoatingHardCoat)
	}
	return coatings
}

// stepUpMaterial picks the stronger Hi-Index material for the upgrade tier.
func stepUpMaterial(maxSph float64) Material {
	if maxSph > 6 {
		return MaterialHiIndex174
	}
	return MaterialHiIndex167
}

const (
	typeSingleVision = "Single Vision"
	typeProgressive  = "Progressive"
	typeBifocal      = "Bifocal (Kryptok / D-Segment)"
)

// baseForm maps ADD presence to the price-table form of the main lens type.
func baseForm(addPresent bool) Form {
	if addPresent {
		return FormProgressive
	}
	return FormSingleVision
}

func baseType(addPresent bool) string {
	if addPresent {
		return typeProgressive
	}
	return typeSingleVision
}

// suggestProgressive handles ADD power at age 40 and above (or unknown age):
// progressive primary, an optional Hi-Index upgrade, and a bifocal fallback.
func suggestProgressive(b *builder, p profile) {
	mat := pickMaterial(p.maxSph, p.isChild)
	coatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	b.add(Suggestion{
		LensType:   typeProgressive,
		Material:   mat,
		Coatings:   coatings,
		PriceRange: composePrice(mat, FormProgressive, coatings),
		Reason:     "ADD power detected: progressive lenses give seamless vision at near, intermediate and distance.",
		Priority:   PriorityPrimary,
	})

	if p.maxSph > 4 && mat != MaterialHiIndex174 {
		upMat := stepUpMaterial(p.maxSph)
		upCoatings := pickCoatings(true, p.isOutdoor, false)
		b.add(Suggestion{
			LensType:   typeProgressive,
			Material:   upMat,
			Coatings:   upCoatings,
			PriceRange: composePrice(upMat, FormProgressive, upCoatings),
			Reason:     fmt.Sprintf("Sphere power of %.2fD: %s keeps progressive lenses thin and light.", p.maxSph, upMat),
			Priority:   PriorityUpgrade,
		})
	}

	bifMat := MaterialCR39
	if p.isChild {
		bifMat = MaterialPolycarbonate
	}
	bifCoatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	b.add(Suggestion{
		LensType:   typeBifocal,
		Material:   bifMat,
		Coatings:   bifCoatings,
		PriceRange: composePrice(bifMat, FormSingleVision, bifCoatings),
		Reason:     "Lower-cost bifocal alternative covering both distance and reading zones.",
		Priority:   PriorityOptional,
	})
}

// suggestBifocalFirst handles the unusual case of ADD power below age 40:
// bifocal primary with progressive offered as the upgrade.
func suggestBifocalFirst(b *builder, p profile) {
	bifMat := MaterialCR39
	if p.isChild {
		bifMat = MaterialPolycarbonate
	}
	coatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	b.add(Suggestion{
		LensType:   typeBifocal,
		Material:   bifMat,
		Coatings:   coatings,
		PriceRange: composePrice(bifMat, FormSingleVision, coatings),
		Reason:     "ADD power detected below age 40: bifocal segments cover the near addition at the lowest cost.",
		Priority:   PriorityPrimary,
	})

	mat := pickMaterial(p.maxSph, p.isChild)
	progCoatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	b.add(Suggestion{
		LensType:   typeProgressive,
		Material:   mat,
		Coatings:   progCoatings,
		PriceRange: composePrice(mat, FormProgressive, progCoatings),
		Reason:     "Line-free progressive upgrade over the bifocal segment.",
		Priority:   PriorityUpgrade,
	})
}

// suggestSingleVision handles prescriptions without ADD power.
func suggestSingleVision(b *builder, p profile) {
	mat := pickMaterial(p.maxSph, p.isChild)
	coatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	b.add(Suggestion{
		LensType:   typeSingleVision,
		Material:   mat,
		Coatings:   coatings,
		PriceRange: composePrice(mat, FormSingleVision, coatings),
		Reason:     singleVisionReason(p, mat),
		Priority:   PriorityPrimary,
	})

	if p.maxSph > 4 && mat != MaterialHiIndex174 {
		upMat := stepUpMaterial(p.maxSph)
		upCoatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
		b.add(Suggestion{
			LensType:   typeSingleVision,
			Material:   upMat,
			Coatings:   upCoatings,
			PriceRange: composePrice(upMat, FormSingleVision, upCoatings),
			Reason:     fmt.Sprintf("Sphere power of %.2fD: upgrading to %s gives noticeably thinner, lighter lenses.", p.maxSph, upMat),
			Priority:   PriorityUpgrade,
		})
	}

	if p.isChild && mat != MaterialPolycarbonate {
		safetyCoatings := pickCoatings(p.isScreenUser, false, true)
		b.add(Suggestion{
			LensType:   typeSingleVision,
			Material:   MaterialPolycarbonate,
			Coatings:   safetyCoatings,
			PriceRange: composePrice(MaterialPolycarbonate, FormSingleVision, safetyCoatings),
			Reason:     "Patient is under 18: impact-resistant polycarbonate with hard coat is the safe choice.",
			Priority:   PriorityPrimary,
		})
	}
}

func singleVisionReason(p profile, mat Material) string {
	switch {
	case p.isChild:
		return "Patient is under 18: impact-resistant polycarbonate is recommended for safety."
	case p.maxSph > 6:
		return fmt.Sprintf("Sphere power of %.2fD: Hi-Index 1.74 keeps the lenses as thin and light as possible.", p.maxSph)
	case p.maxSph > 4:
		return fmt.Sprintf("Sphere power of %.2fD: Hi-Index 1.67 avoids thick lens edges.", p.maxSph)
	case p.maxSph > 2:
		return fmt.Sprintf("Sphere power of %.2fD: polycarbonate offers a thinner, lighter lens.", p.maxSph)
	default:
		return "Standard single vision lenses suit this prescription."
	}
}

// addAsphericUpgrade appends an aspheric variant when astigmatism is high.
// Its base price carries a 1.3x minimum and 1.5x maximum premium.
func addAsphericUpgrade(b *builder, p profile) {
	if p.maxCyl <= 2 {
		return
	}
	mat := pickMaterial(p.maxSph, p.isChild)
	form := baseForm(p.addPresent)
	coatings := pickCoatings(p.isScreenUser, p.isOutdoor, false)
	base := BasePrice(mat, form)
	inflated := PriceRange{
		Min: int(math.Round(float64(base.Min) * 1.3)),
		Max: int(math.Round(float64(base.Max) * 1.5)),
	}
	b.add(Suggestion{
		LensType:   baseType(p.addPresent) + " (Aspheric)",
		Material:   mat,
		Coatings:   coatings,
		PriceRange: inflated.Add(coatingsTotal(coatings)),
		Reason:     fmt.Sprintf("Cylinder power of %.2fD: aspheric design reduces peripheral distortion on strong astigmatism.", p.maxCyl),
		Priority:   PriorityUpgrade,
	})
}

// addPhotochromicVariant always appends a photochromic option. Blue Cut is
// deliberately excluded from its coating set even for screen users.
func addPhotochromicVariant(b *builder, p profile) {
	mat := pickMaterial(p.maxSph, p.isChild)
	form := baseForm(p.addPresent)
	coatings := []Coating{CoatingAntiReflective, CoatingPhotochromic, CoatingHardCoat}

	priority := PriorityOptional
	reason := "Convenience option: photochromic lenses darken automatically in sunlight."
	if p.isOutdoor {
		priority = PriorityUpgrade
		if p.lifestyle == LifestyleDriver {
			priority = PriorityPrimary
		}
		reason = "Outdoor / driving lifestyle detected: photochromic lenses adapt to sunlight and cut glare."
	}

	b.add(Suggestion{
		LensType:   baseType(p.addPresent) + " (Photochromic)",
		Material:   mat,
		Coatings:   coatings,
		PriceRange: composePrice(mat, form, coatings),
		Reason:     reason,
		Priority:   priority,
	})
}

// addBlueCutOption appends a dedicated blue-light option for screen users when
// the leading suggestion does not already carry the coating.
func addBlueCutOption(b *builder, p profile) {
	if !p.isScreenUser {
		return
	}
	if len(b.out) > 0 && b.out[0].HasCoating(CoatingBlueCut) {
		return
	}
	mat := pickMaterial(p.maxSph, p.isChild)
	form := baseForm(p.addPresent)
	coatings := []Coating{CoatingAntiReflective, CoatingBlueCut, CoatingHardCoat}
	b.add(Suggestion{
		LensType:   baseType(p.addPresent),
		Material:   mat,
		Coatings:   coatings,
		PriceRange: composePrice(mat, form, coatings),
		Reason:     "Heavy screen use: Blue Cut coating filters blue light and reduces digital eye strain.",
		Priority:   PriorityUpgrade,
	})
}

// dedupe drops later suggestions that repeat an earlier (lensType, material,
// priority) triple, preserving order.
func dedupe(in []Suggestion) []Suggestion {
	type key struct {
		lensType string
		material Material
		priority Priority
	}
	seen := make(map[key]bool, len(in))
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		k := key{lensType: s.LensType, material: s.Material, priority: s.Priority}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
