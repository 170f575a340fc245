package handler

import (
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NetraTech/netra_api/internal/utils"
    "github.com/NetraTech/netra_api/pkg/optilab"
)

// callbackRecorder captures the payload the handler forwards to the service.
type callbackRecorder struct {
    got *optilab.CallbackPayload
    err error
}

func (r *callbackRecorder) HandleCallback(p *optilab.CallbackPayload) error {
    r.got = p
    return r.err
}

func newWebhookRouter(rec *callbackRecorder, secret string) *gin.Engine {
    gin.SetMode(gin.TestMode)
    router := gin.New()
    h := NewWebhookHandler(rec, secret)
    router.POST("/webhook/optilab", h.HandleOptilabCallback)
    return router
}

func TestWebhookAcceptsSignedCallback(t *testing.T) {
    rec := &callbackRecorder{}
    router := newWebhookRouter(rec, "nt_secret_test")

    body := `{"order_ref":"LAB-20260823-000001","lab_ref":"OPT-9912","status":"READY","rc":"00"}`
    req := httptest.NewRequest("POST", "/webhook/optilab", strings.NewReader(body))
    req.Header.Set("X-Optilab-Signature", utils.GenerateSignature([]byte(body), "nt_secret_test"))
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    require.Equal(t, 200, w.Code)
    require.NotNil(t, rec.got)
    assert.Equal(t, "LAB-20260823-000001", rec.got.OrderRef)
    assert.Equal(t, "OPT-9912", rec.got.LabRef)
    assert.Equal(t, optilab.StatusReady, rec.got.Status)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
    rec := &callbackRecorder{}
    router := newWebhookRouter(rec, "nt_secret_test")

    body := `{"order_ref":"LAB-20260823-000001","status":"READY","rc":"00"}`
    req := httptest.NewRequest("POST", "/webhook/optilab", strings.NewReader(body))
    req.Header.Set("X-Optilab-Signature", "deadbeef")
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    assert.Equal(t, 401, w.Code)
    assert.Nil(t, rec.got, "callback must not reach the service")
}

func TestWebhookSkipsVerificationWithoutSecret(t *testing.T) {
    rec := &callbackRecorder{}
    router := newWebhookRouter(rec, "")

    body := `{"order_ref":"LAB-20260823-000001","status":"IN_PROGRESS","rc":"00"}`
    req := httptest.NewRequest("POST", "/webhook/optilab", strings.NewReader(body))
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    assert.Equal(t, 200, w.Code)
    require.NotNil(t, rec.got)
    assert.Equal(t, optilab.StatusInProgress, rec.got.Status)
}

func TestWebhookUnknownOrder(t *testing.T) {
    rec := &callbackRecorder{err: utils.ErrLabOrderNotFound}
    router := newWebhookRouter(rec, "")

    body := `{"order_ref":"LAB-20260823-999999","status":"READY","rc":"00"}`
    req := httptest.NewRequest("POST", "/webhook/optilab", strings.NewReader(body))
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    assert.Equal(t, 404, w.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
    rec := &callbackRecorder{}
    router := newWebhookRouter(rec, "nt_secret_test")

    body := `{"order_ref":`
    req := httptest.NewRequest("POST", "/webhook/optilab", strings.NewReader(body))
    req.Header.Set("X-Optilab-Signature", utils.GenerateSignature([]byte(body), "nt_secret_test"))
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    assert.Equal(t, 400, w.Code)
    assert.Nil(t, rec.got)
}
