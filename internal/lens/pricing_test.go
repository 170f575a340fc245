package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasePriceCoversAllMaterials(t *testing.T) {
	for _, form := range []Form{FormSingleVision, FormProgressive} {
		for _, m := range Materials() {
			r := BasePrice(m, form)
			assert.Greater(t, r.Min, 0, "%s/%s has no base price", m, form)
			assert.LessOrEqual(t, r.Min, r.Max, "%s/%s range inverted", m, form)
		}
	}
}

func TestBasePriceProgressivePremium(t *testing.T) {
	// Progressive ranges sit strictly above single vision for every material.
	for _, m := range Materials() {
		sv := BasePrice(m, FormSingleVision)
		pg := BasePrice(m, FormProgressive)
		assert.Greater(t, pg.Min, sv.Min, "material %s", m)
		assert.Greater(t, pg.Max, sv.Max, "material %s", m)
	}
}

func TestBasePriceSpotValues(t *testing.T) {
	assert.Equal(t, PriceRange{Min: 500, Max: 1200}, BasePrice(MaterialCR39, FormSingleVision))
	assert.Equal(t, PriceRange{Min: 12000, Max: 22000}, BasePrice(MaterialHiIndex174, FormProgressive))
	assert.Equal(t, PriceRange{}, BasePrice(Material("Glass"), FormSingleVision), "unknown material prices to zero")
}

func TestCoatingPrice(t *testing.T) {
	for _, c := range AllCoatings() {
		r := CoatingPrice(c)
		assert.Greater(t, r.Min, 0, "coating %s", c)
		assert.LessOrEqual(t, r.Min, r.Max, "coating %s", c)
	}
	assert.Equal(t, PriceRange{Min: 1500, Max: 3000}, CoatingPrice(CoatingPhotochromic))
}

func TestComposePrice(t *testing.T) {
	got := composePrice(MaterialCR39, FormSingleVision, []Coating{CoatingAntiReflective, CoatingHardCoat})
	assert.Equal(t, PriceRange{Min: 500 + 400 + 200, Max: 1200 + 800 + 400}, got)

	got = composePrice(MaterialHiIndex167, FormProgressive, nil)
	assert.Equal(t, BasePrice(MaterialHiIndex167, FormProgressive), got, "no coatings adds nothing")
}
