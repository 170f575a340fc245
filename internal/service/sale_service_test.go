package service

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NetraTech/netra_api/internal/utils"
)

func TestResolveLensLine(t *testing.T) {
    s := &SaleService{}
    details := json.RawMessage(`{"lensType":"Progressive","material":"Hi-Index 1.67"}`)

    item, err := s.resolveItem(&SaleItemRequest{
        Quantity:    2,
        Description: "Progressive Hi-Index 1.67",
        UnitPrice:   9500,
        LensDetails: details,
    })

    require.NoError(t, err)
    assert.Nil(t, item.SKUID)
    assert.Equal(t, "Progressive Hi-Index 1.67", item.Description)
    assert.Equal(t, 9500, item.UnitPrice)
    assert.Equal(t, 19000, item.LineTotal)
    assert.Equal(t, details, item.LensDetails)
}

func TestResolveLensLineRejectsIncompleteInput(t *testing.T) {
    s := &SaleService{}
    details := json.RawMessage(`{"lensType":"Single Vision"}`)

    cases := []struct {
        name string
        req  SaleItemRequest
    }{
        {"missing description", SaleItemRequest{Quantity: 1, UnitPrice: 1200, LensDetails: details}},
        {"zero price", SaleItemRequest{Quantity: 1, Description: "SV CR-39", LensDetails: details}},
        {"negative price", SaleItemRequest{Quantity: 1, Description: "SV CR-39", UnitPrice: -100, LensDetails: details}},
        {"missing lens details", SaleItemRequest{Quantity: 1, Description: "SV CR-39", UnitPrice: 1200}},
    }

    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := s.resolveItem(&tc.req)
            assert.Equal(t, utils.ErrInvalidSaleItem, err)
        })
    }
}
