package lens

// Lifestyle enumerates the patient lifestyle tags captured on the clinical
// profile. An empty value is treated as LifestyleGeneral.
type Lifestyle string

const (
	LifestyleStudent Lifestyle = "STUDENT"
	LifestyleOffice  Lifestyle = "OFFICE"
	LifestyleOutdoor Lifestyle = "OUTDOOR"
	LifestyleDriver  Lifestyle = "DRIVER"
	LifestyleGeneral Lifestyle = "GENERAL"
)

// Material enumerates the lens materials the chain stocks. The set is closed:
// price lookups switch over it exhaustively.
type Material string

const (
	MaterialCR39          Material = "CR-39"
	MaterialPolycarbonate Material = "Polycarbonate"
	MaterialTrivex        Material = "Trivex"
	MaterialHiIndex167    Material = "Hi-Index 1.67"
	MaterialHiIndex174    Material = "Hi-Index 1.74"
)

// Coating enumerates the coatings offered on top of a lens. Order inside a
// suggestion is significant: Anti-Reflective always comes first, Hard Coat last.
type Coating string

const (
	CoatingAntiReflective Coating = "Anti-Reflective"
	CoatingBlueCut        Coating = "Blue Cut"
	CoatingPhotochromic   Coating = "Photochromic"
	CoatingHardCoat       Coating = "Hard Coat"
)

// Priority ranks a suggestion for display. Primary entries are shown before
// upgrades, upgrades before optional add-ons.
type Priority string

const (
	PriorityPrimary  Priority = "PRIMARY"
	PriorityUpgrade  Priority = "UPGRADE"
	PriorityOptional Priority = "OPTIONAL"
)

// Rank returns the sort ordinal of the priority. Unknown values sink to the end.
func (p Priority) Rank() int {
	switch p {
	case PriorityPrimary:
		return 0
	case PriorityUpgrade:
		return 1
	case PriorityOptional:
		return 2
	default:
		return 3
	}
}

// Form distinguishes the two lens forms the price tables are keyed by.
// Bifocals are priced from the single-vision table.
type Form string

const (
	FormSingleVision Form = "single-vision"
	FormProgressive  Form = "progressive"
)

// PriceRange is a retail price span in whole rupees, Min <= Max.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Add returns the element-wise sum of two ranges.
func (p PriceRange) Add(other PriceRange) PriceRange {
	return PriceRange{Min: p.Min + other.Min, Max: p.Max + other.Max}
}

// PrescriptionInput is the engine input. Every field is optional: nil means
// the value was not recorded. Diopter fields must be finite when present;
// NaN is out of contract. Axis values are carried for completeness and do not
// influence the suggestions.
type PrescriptionInput struct {
	RightSphere   *float64  `json:"rightSphere,omitempty"`
	LeftSphere    *float64  `json:"leftSphere,omitempty"`
	RightCylinder *float64  `json:"rightCylinder,omitempty"`
	LeftCylinder  *float64  `json:"leftCylinder,omitempty"`
	RightAxis     *int      `json:"rightAxis,omitempty"`
	LeftAxis      *int      `json:"leftAxis,omitempty"`
	RightAdd      *float64  `json:"rightAdd,omitempty"`
	LeftAdd       *float64  `json:"leftAdd,omitempty"`
	PatientAge    *int      `json:"patientAge,omitempty"`
	Lifestyle     Lifestyle `json:"lifestyle,omitempty"`
}

// Suggestion is one recommended lens configuration. IDs are unique and
// deterministic within a single engine call only.
type Suggestion struct {
	ID         int        `json:"id"`
	LensType   string     `json:"lensType"`
	Material   Material   `json:"material"`
	Coatings   []Coating  `json:"coatings"`
	PriceRange PriceRange `json:"priceRange"`
	Reason     string     `json:"reason"`
	Priority   Priority   `json:"priority"`
}

// HasCoating reports whether the suggestion already includes the coating.
func (s Suggestion) HasCoating(c Coating) bool {
	for _, have := range s.Coatings {
		if have == c {
			return true
		}
	}
	return false
}
