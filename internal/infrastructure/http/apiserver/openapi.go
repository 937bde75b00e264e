package apiserver

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIHandler serves the embedded API description
type OpenAPIHandler struct {
	logger   *zap.Logger
	specJSON []byte
}

// NewOpenAPIHandler parses the embedded document once
func NewOpenAPIHandler(logger *zap.Logger) *OpenAPIHandler {
	h := &OpenAPIHandler{logger: logger.Named("openapi")}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		h.logger.Error("Failed to parse OpenAPI spec", zap.Error(err))
		return h
	}
	data, err := json.Marshal(doc)
	if err != nil {
		h.logger.Error("Failed to convert OpenAPI spec to JSON", zap.Error(err))
		return h
	}
	h.specJSON = data
	return h
}

// ServeOpenAPISpec serves the document as YAML
func (h *OpenAPIHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// ServeOpenAPIJSON serves the document as JSON
func (h *OpenAPIHandler) ServeOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	if h.specJSON == nil {
		http.Error(w, `{"error":"OpenAPI spec not available"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.specJSON)
}
