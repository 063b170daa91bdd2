package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/services/kv"
)

// Parameter keys whose values are masked in list responses.
var sensitiveKeySuffixes = []string{"api_key", "token", "password", "secret"}

// KVHandler handles runtime parameter HTTP requests
type KVHandler struct {
	params *kv.Service
	logger arbor.ILogger
}

// NewKVHandler creates a new parameter store handler
func NewKVHandler(params *kv.Service, logger arbor.ILogger) *KVHandler {
	return &KVHandler{params: params, logger: logger}
}

// ListParamsHandler handles GET /api/params - lists all parameters with
// sensitive values masked
func (h *KVHandler) ListParamsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	pairs, err := h.params.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	sanitized := make([]map[string]interface{}, len(pairs))
	for i, pair := range pairs {
		sanitized[i] = map[string]interface{}{
			"key":         pair.Key,
			"value":       maskValue(pair.Key, pair.Value),
			"description": pair.Description,
			"created_at":  pair.CreatedAt,
			"updated_at":  pair.UpdatedAt,
		}
	}
	WriteJSON(w, http.StatusOK, sanitized)
}

// ParamRoutesHandler dispatches GET/PUT/DELETE /api/params/{key}
func (h *KVHandler) ParamRoutesHandler(w http.ResponseWriter, r *http.Request) {
	encodedKey := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/params/"), "/")
	key, err := url.PathUnescape(encodedKey)
	if err != nil || key == "" {
		WriteError(w, http.StatusBadRequest, "invalid parameter key")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getParam(w, r, key)
	case http.MethodPut:
		h.putParam(w, r, key)
	case http.MethodDelete:
		h.deleteParam(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *KVHandler) getParam(w http.ResponseWriter, r *http.Request, key string) {
	value, err := h.params.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			WriteError(w, http.StatusNotFound, "parameter not found: "+key)
			return
		}
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"key":   key,
		"value": value,
	})
}

func (h *KVHandler) putParam(w http.ResponseWriter, r *http.Request, key string) {
	var body struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.params.Set(r.Context(), key, body.Value, body.Description); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	h.logger.Info().Str("key", key).Msg("Parameter updated")
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"key":    key,
	})
}

func (h *KVHandler) deleteParam(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.params.Delete(r.Context(), key); err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			WriteError(w, http.StatusNotFound, "parameter not found: "+key)
			return
		}
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"key":    key,
	})
}

// maskValue hides credential-like parameter values
func maskValue(key, value string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(key)
	for _, suffix := range sensitiveKeySuffixes {
		if strings.Contains(lower, suffix) {
			if len(value) <= 4 {
				return "****"
			}
			return value[:4] + strings.Repeat("*", len(value)-4)
		}
	}
	return value
}
