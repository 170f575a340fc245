package handler

import (
    "encoding/json"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NetraTech/netra_api/internal/service"
)

func newSuggestionRouter() *gin.Engine {
    gin.SetMode(gin.TestMode)
    router := gin.New()
    h := NewSuggestionHandler(service.NewSuggestionService(nil, nil))
    router.POST("/v1/suggestions", h.Suggest)
    return router
}

func TestSuggestInlinePrescription(t *testing.T) {
    router := newSuggestionRouter()

    body := `{"prescription":{"rightSphere":-7.5,"leftSphere":-7.0,"patientAge":30,"lifestyle":"OFFICE"}}`
    req := httptest.NewRequest("POST", "/v1/suggestions", strings.NewReader(body))
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    require.Equal(t, 200, w.Code)

    var resp struct {
        Success bool `json:"success"`
        Data    struct {
            Prescription struct {
                RightSphere *float64 `json:"rightSphere"`
            } `json:"prescription"`
            Suggestions []struct {
                LensType string `json:"lensType"`
                Material string `json:"material"`
                Priority string `json:"priority"`
            } `json:"suggestions"`
        } `json:"data"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

    assert.True(t, resp.Success)
    require.NotNil(t, resp.Data.Prescription.RightSphere)
    assert.Equal(t, -7.5, *resp.Data.Prescription.RightSphere)

    // High myopia on an office profile leads with thin high-index single vision.
    require.NotEmpty(t, resp.Data.Suggestions)
    assert.Equal(t, "Single Vision", resp.Data.Suggestions[0].LensType)
    assert.Equal(t, "Hi-Index 1.74", resp.Data.Suggestions[0].Material)
    assert.Equal(t, "PRIMARY", resp.Data.Suggestions[0].Priority)
}

func TestSuggestEmptyBodyStillSuggests(t *testing.T) {
    router := newSuggestionRouter()

    req := httptest.NewRequest("POST", "/v1/suggestions", strings.NewReader(`{}`))
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    // A prescription with no recorded values is a valid walk-in case.
    require.Equal(t, 200, w.Code)

    var resp struct {
        Data struct {
            Suggestions []json.RawMessage `json:"suggestions"`
        } `json:"data"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.NotEmpty(t, resp.Data.Suggestions)
}

func TestSuggestRejectsMalformedBody(t *testing.T) {
    router := newSuggestionRouter()

    req := httptest.NewRequest("POST", "/v1/suggestions", strings.NewReader(`{"prescription":`))
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    require.Equal(t, 400, w.Code)

    var resp struct {
        Success bool `json:"success"`
        Error   struct {
            Code string `json:"code"`
        } `json:"error"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.False(t, resp.Success)
    assert.Equal(t, "MISSING_FIELD", resp.Error.Code)
}
