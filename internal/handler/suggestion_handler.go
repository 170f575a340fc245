package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/NetraTech/netra_api/internal/lens"
    "github.com/NetraTech/netra_api/internal/service"
    "github.com/NetraTech/netra_api/internal/utils"
)

// SuggestionHandler serves lens recommendations for the counter screen.
type SuggestionHandler struct {
    suggestionService *service.SuggestionService
}

// NewSuggestionHandler constructs a SuggestionHandler.
func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
    return &SuggestionHandler{suggestionService: suggestionService}
}

// Suggest handles POST /v1/suggestions
func (h *SuggestionHandler) Suggest(c *gin.Context) {
    var req service.SuggestRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
        return
    }

    resp, err := h.suggestionService.Suggest(&req)
    if err != nil {
        switch err {
        case utils.ErrEyeTestNotFound:
            utils.Error(c, 404, "EYE_TEST_NOT_FOUND", "Eye test not found")
        default:
            utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
        }
        return
    }

    utils.Success(c, 200, "Suggestions generated", resp)
}

// SuggestForEyeTest handles GET /v1/eye-tests/:id/suggestions
func (h *SuggestionHandler) SuggestForEyeTest(c *gin.Context) {
    id, err := strconv.Atoi(c.Param("id"))
    if err != nil {
        utils.Error(c, 400, "INVALID_ID", "Eye test id must be numeric")
        return
    }

    resp, err := h.suggestionService.Suggest(&service.SuggestRequest{EyeTestID: &id})
    if err != nil {
        switch err {
        case utils.ErrEyeTestNotFound:
            utils.Error(c, 404, "EYE_TEST_NOT_FOUND", "Eye test not found")
        default:
            utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
        }
        return
    }

    utils.Success(c, 200, "Suggestions generated", resp)
}

// GetLensPrices handles GET /v1/lens-prices
// Publishes the retail price reference the recommendation engine prices from.
func (h *SuggestionHandler) GetLensPrices(c *gin.Context) {
    type materialPrices struct {
        Material     lens.Material   `json:"material"`
        SingleVision lens.PriceRange `json:"singleVision"`
        Progressive  lens.PriceRange `json:"progressive"`
    }
    type coatingPrice struct {
        Coating lens.Coating    `json:"coating"`
        Price   lens.PriceRange `json:"price"`
    }

    materials := make([]materialPrices, 0, len(lens.Materials()))
    for _, m := range lens.Materials() {
        materials = append(materials, materialPrices{
            Material:     m,
            SingleVision: lens.BasePrice(m, lens.FormSingleVision),
            Progressive:  lens.BasePrice(m, lens.FormProgressive),
        })
    }

    coatings := make([]coatingPrice, 0, len(lens.AllCoatings()))
    for _, co := range lens.AllCoatings() {
        coatings = append(coatings, coatingPrice{Coating: co, Price: lens.CoatingPrice(co)})
    }

    utils.Success(c, 200, "Lens prices retrieved", gin.H{
        "currency":  "INR",
        "materials": materials,
        "coatings":  coatings,
    })
}
