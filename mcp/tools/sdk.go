// Package tools defines the shared contract between the MCP server and its
// tool providers, plus helpers for argument extraction and schema building.
package tools

import (
	"encoding/json"
	"fmt"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolProvider is implemented by each tool module
type ToolProvider interface {
	// Name returns the provider name (e.g., "budget")
	Name() string

	// Tools returns all tools provided by this module
	Tools() []Tool

	// HasTool reports whether a tool name belongs to this provider
	HasTool(name string) bool

	// Call executes a tool by name with the given arguments
	Call(name string, args map[string]interface{}) (interface{}, error)

	// CheckDependencies verifies required configuration exists
	CheckDependencies() error
}

// --- Response Helpers ---

// TextContent creates an MCP text content response
func TextContent(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": text,
			},
		},
	}
}

// JSONContent creates an MCP text content response from JSON data
func JSONContent(data interface{}) (map[string]interface{}, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return TextContent(string(jsonBytes)), nil
}

// --- Argument Helpers ---

// GetString extracts a string argument, returns empty string if not found
func GetString(args map[string]interface{}, key string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return ""
}

// GetStringRequired extracts a required string argument
func GetStringRequired(args map[string]interface{}, key string) (string, error) {
	if val, ok := args[key].(string); ok && val != "" {
		return val, nil
	}
	return "", fmt.Errorf("missing required argument: %s", key)
}

// GetNumber extracts a numeric argument, returns default if not found
func GetNumber(args map[string]interface{}, key string, defaultVal float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultVal
}

// GetNumberRequired extracts a required numeric argument
func GetNumberRequired(args map[string]interface{}, key string) (float64, error) {
	if val, ok := args[key].(float64); ok {
		return val, nil
	}
	return 0, fmt.Errorf("missing required argument: %s", key)
}

// GetInt extracts an integer argument, returns default if not found
func GetInt(args map[string]interface{}, key string, defaultVal int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	return defaultVal
}

// GetBool extracts a boolean argument, returns default if not found
func GetBool(args map[string]interface{}, key string, defaultVal bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultVal
}

// --- Schema Helpers ---

// StringProperty creates a string property for inputSchema
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// NumberProperty creates a number property for inputSchema
func NumberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// IntProperty creates an integer property for inputSchema
func IntProperty(description string, defaultVal int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"default":     defaultVal,
	}
}

// BoolProperty creates a boolean property for inputSchema
func BoolProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
	}
}

// ArrayProperty creates an array property for inputSchema
func ArrayProperty(description string, items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       items,
	}
}

// ObjectSchema creates a standard object inputSchema
func ObjectSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
