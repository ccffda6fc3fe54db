package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/docs"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// DefaultServers are advertised when no public URL is configured
var DefaultServers = []Server{
	{URL: "http://localhost:8080/api/v1", Description: "Local Development"},
}

// transformRefs rewrites $ref targets from #/definitions/ to #/components/schemas/
// and converts Swagger 2.0 operations to OpenAPI 3.0 form
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if key == "$ref" {
				if ref, ok := value.(string); ok {
					result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
					continue
				}
			}
			result[key] = transformRefs(value)
		}
		if params, ok := result["parameters"].([]interface{}); ok {
			liftBodyParameter(result, params)
		}
		if responses, ok := result["responses"].(map[string]interface{}); ok {
			wrapResponseSchemas(responses)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformParameter moves type fields of a non-body parameter into a schema object
func transformParameter(param map[string]interface{}) map[string]interface{} {
	if param["in"] == "body" {
		out := make(map[string]interface{}, len(param))
		for k, val := range param {
			out[k] = transformRefs(val)
		}
		return out
	}

	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			if field == "items" {
				schema[field] = transformRefs(val)
			} else {
				schema[field] = val
			}
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// liftBodyParameter replaces an "in: body" parameter with an OpenAPI 3.0 requestBody
func liftBodyParameter(operation map[string]interface{}, params []interface{}) {
	kept := make([]interface{}, 0, len(params))
	for _, p := range params {
		param, ok := p.(map[string]interface{})
		if !ok || param["in"] != "body" {
			kept = append(kept, p)
			continue
		}
		body := map[string]interface{}{
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{"schema": param["schema"]},
			},
		}
		if required, ok := param["required"]; ok {
			body["required"] = required
		}
		operation["requestBody"] = body
	}
	if len(kept) == 0 {
		delete(operation, "parameters")
		return
	}
	operation["parameters"] = kept
}

// wrapResponseSchemas moves response schemas under content/application/json
func wrapResponseSchemas(responses map[string]interface{}) {
	for code, r := range responses {
		resp, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		schema, ok := resp["schema"]
		if !ok {
			continue
		}
		delete(resp, "schema")
		resp["content"] = map[string]interface{}{
			"application/json": map[string]interface{}{"schema": schema},
		}
		responses[code] = resp
	}
}

// NewOpenAPI3Handler serves the registered swagger document converted to OpenAPI 3.0
func NewOpenAPI3Handler(servers []Server) echo.HandlerFunc {
	if len(servers) == 0 {
		servers = DefaultServers
	}
	return func(c echo.Context) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return NewInternalError(c, "Failed to read API document")
		}

		spec, err := convertToOpenAPI3(doc, servers)
		if err != nil {
			return NewInternalError(c, "Failed to parse API document")
		}
		return c.JSON(http.StatusOK, spec)
	}
}

func convertToOpenAPI3(doc string, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})
	transformedPaths, _ := transformRefs(paths).(map[string]interface{})

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      transformedPaths,
		Components: components,
	}, nil
}
