package toolkit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/toolhost/toolhost/pkg/mcp"
)

type registeredTool struct {
	def    ToolDefinition
	schema *gojsonschema.Schema
	raw    map[string]interface{}
}

// Router maps tool names to handlers plus compiled parameter schemas. It is
// built once from the composed groups and is read-only afterwards, so lookups
// need no locking.
type Router struct {
	tools map[string]*registeredTool
	order []string
}

// NewRouter merges the tool sets of the given groups into one registry.
// A duplicate tool name across groups is a construction-time error.
func NewRouter(groups ...Group) (*Router, error) {
	r := &Router{
		tools: make(map[string]*registeredTool),
	}

	for _, group := range groups {
		for _, def := range group.Tools() {
			if err := r.register(def); err != nil {
				return nil, err
			}
		}
	}

	log.Info().Int("tools", len(r.order)).Msg("Tool router built")

	return r, nil
}

func (r *Router) register(def ToolDefinition) error {
	if err := validateToolDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("duplicate tool name: %s", def.Name)
	}

	raw := schemaMap(def)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to compile schema for %s: %w", def.Name, err)
	}

	r.tools[def.Name] = &registeredTool{def: def, schema: schema, raw: raw}
	r.order = append(r.order, def.Name)

	log.Debug().Str("tool", def.Name).Msg("Tool registered")

	return nil
}

// Has reports whether a tool with the given name is registered.
func (r *Router) Has(name string) bool {
	_, exists := r.tools[name]
	return exists
}

// Tools returns the descriptors of all registered tools in registration order.
func (r *Router) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		tools = append(tools, mcp.Tool{
			Name:        t.def.Name,
			Description: t.def.Description,
			InputSchema: t.raw,
		})
	}
	return tools
}

// Dispatch looks up the named tool, validates the raw payload against its
// parameter schema and executes the handler. The lookup failure is reported
// before validation is attempted, so a bad payload for an unknown tool still
// yields a tool-not-found error.
func (r *Router) Dispatch(ctx context.Context, name string, params map[string]interface{}) ([]mcp.Content, *CallError) {
	tool, exists := r.tools[name]
	if !exists {
		log.Warn().Str("tool", name).Msg("Tool not found")
		return nil, NotFoundError(name)
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	if callErr := r.validateParameters(tool, params); callErr != nil {
		log.Warn().Str("tool", name).Str("error", callErr.Message).Msg("Parameter validation failed")
		return nil, callErr
	}

	log.Debug().Str("tool", name).Msg("Executing tool")

	content, err := tool.def.Handler(ctx, params)
	if err != nil {
		callErr, ok := err.(*CallError)
		if !ok {
			// Safety net: handlers classify their own failures, but an
			// unclassified error must still leave the router structured.
			callErr = Internalf("%v", err)
		}
		log.Error().Str("tool", name).Str("error", callErr.Message).Msg("Tool execution failed")
		return nil, callErr
	}

	return content, nil
}

// validateParameters validates a raw payload against the tool's JSON Schema.
func (r *Router) validateParameters(tool *registeredTool, params map[string]interface{}) *CallError {
	result, err := tool.schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return InvalidParamsError(tool.def.Name, err.Error())
	}

	if !result.Valid() {
		details := []string{}
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return InvalidParamsError(tool.def.Name, details)
	}

	return nil
}
