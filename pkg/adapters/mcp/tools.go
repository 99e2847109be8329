package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/feamcp/feamcp/pkg/router"
)

// Schema fragments shared by the tool definitions. Coordinates are always
// {x, y, z} objects in the model's active unit system.
func coordSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
			"z": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y", "z"},
	}
}

func coordListSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": desc,
		"items":       coordSchema("one coordinate"),
	}
}

func idListSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": desc,
		"items":       map[string]interface{}{"type": "string"},
	}
}

func objectSchema(props map[string]interface{}, required ...string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// toolDefs binds one MCP tool to each routed operation. The tool name is the
// operation name; every tool handler funnels into Server.dispatch.
var toolDefs = []mcp.Tool{
	{
		Name:        "connect",
		Description: "Attach to the running FEA application. Idempotent; other tools connect on demand.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getSoftware",
		Description: "Report the bound FEA software name and version.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getUnits",
		Description: "Get the active model unit system (force, length, temperature, ...). Coordinates in every other tool use these units.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "createPoint",
		Description: "Create a point at the given coordinates. The application may merge it with an existing coincident point.",
		InputSchema: objectSchema(map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
			"z": map[string]interface{}{"type": "number"},
		}, "x", "y", "z"),
	},
	{
		Name:        "createLine",
		Description: "Create a straight line between two coordinates. End points are created implicitly.",
		InputSchema: objectSchema(map[string]interface{}{
			"coords": coordListSchema("exactly two coordinates, start and end"),
		}, "coords"),
	},
	{
		Name:        "createLineByPoints",
		Description: "Create a straight line between two existing points.",
		InputSchema: objectSchema(map[string]interface{}{
			"pointIds": idListSchema("exactly two existing point ids"),
		}, "pointIds"),
	},
	{
		Name:        "createArc",
		Description: "Create a circular arc through three positions: start, a point on the arc, end. Supply coords or pointIds, not both.",
		InputSchema: objectSchema(map[string]interface{}{
			"coords":   coordListSchema("exactly three coordinates: start, on-arc, end"),
			"pointIds": idListSchema("exactly three existing point ids: start, on-arc, end"),
		}),
	},
	{
		Name:        "createSurface",
		Description: "Create a surface from ordered corner coordinates. Winding order sets the face orientation.",
		InputSchema: objectSchema(map[string]interface{}{
			"coords": coordListSchema("at least three corner coordinates, in boundary order"),
		}, "coords"),
	},
	{
		Name:        "createSurfaceByLines",
		Description: "Create a surface bounded by existing lines, in boundary order.",
		InputSchema: objectSchema(map[string]interface{}{
			"lineIds": idListSchema("at least three existing line ids forming a closed boundary"),
		}, "lineIds"),
	},
	{
		Name:        "createVolume",
		Description: "Create a volume from a closed set of existing surfaces.",
		InputSchema: objectSchema(map[string]interface{}{
			"surfaceIds": idListSchema("at least four existing surface ids forming a closed shell"),
		}, "surfaceIds"),
	},
	{
		Name:        "createObjectsByCoordinates",
		Description: "Create several objects in one call. Items run strictly in order; a failing item is reported in place and never aborts the rest.",
		InputSchema: objectSchema(map[string]interface{}{
			"objects": map[string]interface{}{
				"type":        "array",
				"description": "creation requests, processed in order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"type": map[string]interface{}{
							"type": "string",
							"enum": []string{"point", "line", "arc", "spline", "surface"},
						},
						"coords": coordListSchema("defining coordinates for the object"),
					},
					"required": []string{"type", "coords"},
				},
			},
		}, "objects"),
	},
	{
		Name:        "getAllGeometries",
		Description: "List every geometric object in the model as {type, id, attributes} records.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getPoints",
		Description: "List all points with their coordinates.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getFrames",
		Description: "List all frame objects with their end points (ETABS).",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getAreas",
		Description: "List all area objects with their corner points (ETABS).",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getLines",
		Description: "List all lines with their defining points.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getSurfaces",
		Description: "List all surfaces with their defining points.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "getVolumes",
		Description: "List all volumes with their defining points.",
		InputSchema: objectSchema(map[string]interface{}{}),
	},
	{
		Name:        "sweepPoints",
		Description: "Sweep existing points along a vector, producing lines.",
		InputSchema: objectSchema(map[string]interface{}{
			"ids":    idListSchema("point ids to sweep"),
			"vector": coordSchema("translation vector, must be non-zero"),
		}, "ids", "vector"),
	},
	{
		Name:        "sweepLines",
		Description: "Sweep existing lines along a vector, producing surfaces.",
		InputSchema: objectSchema(map[string]interface{}{
			"ids":    idListSchema("line ids to sweep"),
			"vector": coordSchema("translation vector, must be non-zero"),
		}, "ids", "vector"),
	},
	{
		Name:        "sweepSurfaces",
		Description: "Sweep existing surfaces along a vector, producing volumes.",
		InputSchema: objectSchema(map[string]interface{}{
			"ids":    idListSchema("surface ids to sweep"),
			"vector": coordSchema("translation vector, must be non-zero"),
		}, "ids", "vector"),
	},
	{
		Name:        "select",
		Description: "Replace the application's current selection with exactly the given objects. All-or-nothing: one unknown id fails the whole call and keeps the prior selection.",
		InputSchema: objectSchema(map[string]interface{}{
			"points":   idListSchema("point ids to select"),
			"lines":    idListSchema("line ids to select"),
			"surfaces": idListSchema("surface ids to select"),
			"volumes":  idListSchema("volume ids to select"),
		}),
	},
}

func (s *Server) registerTools() {
	for _, def := range toolDefs {
		op := def.Name
		s.mcpServer.AddTool(def, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.dispatch(ctx, op, req)
		})
	}
}

// dispatch funnels a tool call through the router and flattens the envelope
// into the MCP result shape. Taxonomy failures become tool errors, never
// protocol errors; the agent is expected to read them and adjust.
func (s *Server) dispatch(ctx context.Context, op string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := s.router.Dispatch(ctx, op, req.GetArguments())
	if resp.Error != nil {
		toolInvocations.WithLabelValues(op, "error").Inc()
		s.log.Warn("tool call failed", "tool", op, "code", resp.Error.Code)
		return mcp.NewToolResultError(resp.Error.Code + ": " + resp.Error.Message), nil
	}
	toolInvocations.WithLabelValues(op, "ok").Inc()

	out, err := json.Marshal(router.Response{Result: resp.Result})
	if err != nil {
		return mcp.NewToolResultError("encoding result failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
