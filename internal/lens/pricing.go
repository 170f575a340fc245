package lens

// Retail price reference, whole rupees. These tables are the single pricing
// source for the engine and for the published price list; suggestion prices
// are always composed as base form price plus the sum of coating prices.

// BasePrice returns the retail range for a material in the given form.
// Unknown combinations return a zero range.
func BasePrice(m Material, f Form) PriceRange {
	switch f {
	case FormProgressive:
		switch m {
		case MaterialCR39:
			return PriceRange{Min: 2500, Max: 5000}
		case MaterialPolycarbonate:
			return PriceRange{Min: 4000, Max: 8000}
		case MaterialTrivex:
			return PriceRange{Min: 6000, Max: 10000}
		case MaterialHiIndex167:
			return PriceRange{Min: 8000, Max: 15000}
		case MaterialHiIndex174:
			return PriceRange{Min: 12000, Max: 22000}
		}
	case FormSingleVision:
		switch m {
		case MaterialCR39:
			return PriceRange{Min: 500, Max: 1200}
		case MaterialPolycarbonate:
			return PriceRange{Min: 1200, Max: 2500}
		case MaterialTrivex:
			return PriceRange{Min: 2500, Max: 4500}
		case MaterialHiIndex167:
			return PriceRange{Min: 3000, Max: 6000}
		case MaterialHiIndex174:
			return PriceRange{Min: 6000, Max: 12000}
		}
	}
	return PriceRange{}
}

// CoatingPrice returns the retail range for a single coating.
func CoatingPrice(c Coating) PriceRange {
	switch c {
	case CoatingAntiReflective:
		return PriceRange{Min: 400, Max: 800}
	case CoatingBlueCut:
		return PriceRange{Min: 600, Max: 1200}
	case CoatingPhotochromic:
		return PriceRange{Min: 1500, Max: 3000}
	case CoatingHardCoat:
		return PriceRange{Min: 200, Max: 400}
	}
	return PriceRange{}
}

// Materials lists every stocked material in display order.
func Materials() []Material {
	return []Material{
		MaterialCR39,
		MaterialPolycarbonate,
		MaterialTrivex,
		MaterialHiIndex167,
		MaterialHiIndex174,
	}
}

// AllCoatings lists every offered coating in display order.
func AllCoatings() []Coating {
	return []Coating{
		CoatingAntiReflective,
		CoatingBlueCut,
		CoatingPhotochromic,
		CoatingHardCoat,
	}
}

func coatingsTotal(coatings []Coating) PriceRange {
	var total PriceRange
	for _, c := range coatings {
		total = total.Add(CoatingPrice(c))
	}
	return total
}

// composePrice is the standard suggestion price: base form price for the
// material plus all selected coatings.
func composePrice(m Material, f Form, coatings []Coating) PriceRange {
	return BasePrice(m, f).Add(coatingsTotal(coatings))
}
