package handler

import (
    "encoding/json"
    "io"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog/log"

    "github.com/NetraTech/netra_api/internal/utils"
    "github.com/NetraTech/netra_api/pkg/optilab"
)

// WebhookHandler handles incoming webhooks from the lens lab.
type WebhookHandler struct {
    labService    interface{ HandleCallback(payload *optilab.CallbackPayload) error }
    webhookSecret string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(labService interface{ HandleCallback(payload *optilab.CallbackPayload) error }, webhookSecret string) *WebhookHandler {
    return &WebhookHandler{labService: labService, webhookSecret: webhookSecret}
}

// HandleOptilabCallback handles POST /webhook/optilab
func (h *WebhookHandler) HandleOptilabCallback(c *gin.Context) {
    // 1. Read body
    body, err := io.ReadAll(c.Request.Body)
    if err != nil {
        c.JSON(400, gin.H{"error": "Invalid body"})
        return
    }

    // 2. Verify signature over the raw body. An empty secret disables the
    // check for local development.
    if h.webhookSecret != "" {
        signature := c.GetHeader("X-Optilab-Signature")
        if !utils.VerifySignature(body, signature, h.webhookSecret) {
            log.Warn().Str("ip", c.ClientIP()).Msg("Rejected lab callback with invalid signature")
            c.JSON(401, gin.H{"error": "Invalid signature"})
            return
        }
    }

    // 3. Parse payload
    var payload optilab.CallbackPayload
    if err := json.Unmarshal(body, &payload); err != nil {
        c.JSON(400, gin.H{"error": "Invalid JSON"})
        return
    }

    // 4. Process callback
    if err := h.labService.HandleCallback(&payload); err != nil {
        if err == utils.ErrLabOrderNotFound {
            c.JSON(404, gin.H{"error": "Unknown order"})
            return
        }
        log.Error().Err(err).Msg("Failed to process Optilab callback")
        c.JSON(500, gin.H{"error": "Processing failed"})
        return
    }

    c.JSON(200, gin.H{"received": true})
}
