package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dafibh/committee/committee-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

const jsonMediaType = "application/json"

// OpenAPIDocument is the OpenAPI 3.0 rendering of the swag-generated document
type OpenAPIDocument struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server is an OpenAPI 3.0 server entry
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIHandler serves the API document as OpenAPI 3.0. The conversion
// runs once; the swag document is fixed at build time.
type OpenAPIHandler struct {
	servers []Server

	once sync.Once
	doc  *OpenAPIDocument
	err  error
}

// NewOpenAPIHandler creates a handler advertising servers
func NewOpenAPIHandler(servers []Server) *OpenAPIHandler {
	return &OpenAPIHandler{servers: servers}
}

// Serve handles GET /swagger/openapi.json
func (h *OpenAPIHandler) Serve(c echo.Context) error {
	h.once.Do(func() {
		var raw string
		raw, h.err = swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if h.err == nil {
			h.doc, h.err = ConvertSwagger2([]byte(raw), h.servers)
		}
	})
	if h.err != nil {
		return NewInternalError(c, "Failed to build API document")
	}
	return c.JSON(http.StatusOK, h.doc)
}

// ConvertSwagger2 turns a Swagger 2.0 document into OpenAPI 3.0. Body
// parameters become request bodies, response schemas move under content, and
// definitions move to components/schemas.
func ConvertSwagger2(raw []byte, servers []Server) (*OpenAPIDocument, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(raw, &swagger2); err != nil {
		return nil, fmt.Errorf("failed to parse swagger doc: %w", err)
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths := make(map[string]interface{})
	if rawPaths, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range rawPaths {
			operations, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			converted := make(map[string]interface{}, len(operations))
			for method, op := range operations {
				if opMap, ok := op.(map[string]interface{}); ok {
					converted[method] = convertOperation(opMap)
				}
			}
			paths[path] = converted
		}
	}

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = rewriteRefs(definitions)
	}

	return &OpenAPIDocument{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

func convertOperation(op map[string]interface{}) map[string]interface{} {
	consumes := firstMediaType(op["consumes"])
	produces := firstMediaType(op["produces"])

	result := make(map[string]interface{})
	for key, value := range op {
		switch key {
		case "consumes", "produces", "parameters", "responses":
		default:
			result[key] = rewriteRefs(value)
		}
	}

	if params, ok := op["parameters"].([]interface{}); ok {
		var converted []interface{}
		for _, p := range params {
			param, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if param["in"] == "body" {
				body := map[string]interface{}{
					"content": map[string]interface{}{
						consumes: map[string]interface{}{"schema": rewriteRefs(param["schema"])},
					},
				}
				if required, ok := param["required"]; ok {
					body["required"] = required
				}
				if desc, ok := param["description"]; ok {
					body["description"] = desc
				}
				result["requestBody"] = body
				continue
			}
			converted = append(converted, convertParameter(param))
		}
		if len(converted) > 0 {
			result["parameters"] = converted
		}
	}

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		converted := make(map[string]interface{}, len(responses))
		for status, r := range responses {
			resp, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			out := map[string]interface{}{"description": resp["description"]}
			if schema, ok := resp["schema"]; ok {
				out["content"] = map[string]interface{}{
					produces: map[string]interface{}{"schema": rewriteRefs(schema)},
				}
			}
			converted[status] = out
		}
		result["responses"] = converted
	}
	return result
}

// convertParameter moves the Swagger 2.0 type fields of a path, query or
// header parameter under schema
func convertParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = rewriteRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// rewriteRefs points $ref values at components/schemas
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = rewriteRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = rewriteRefs(item)
		}
		return result
	default:
		return data
	}
}

func firstMediaType(v interface{}) string {
	if types, ok := v.([]interface{}); ok && len(types) > 0 {
		if s, ok := types[0].(string); ok && s != "" {
			return s
		}
	}
	return jsonMediaType
}
