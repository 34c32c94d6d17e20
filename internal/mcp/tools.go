package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
)

// RegisterTools adds all economy tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(newEconomyTool(), handleNewEconomy)
	s.AddTool(fuseTool(), economyHandler("fuse"))
	s.AddTool(batchFuseTool(), economyHandler("batch_fuse"))
	s.AddTool(compressTool(), economyHandler("compress"))
	s.AddTool(upgradeTool(), economyHandler("upgrade"))
	s.AddTool(cooldownTool(), economyHandler("cooldown"))
	s.AddTool(grantTool(), economyHandler("grant"))
	s.AddTool(drawMoleculeTool(), economyHandler("draw_molecule"))
	s.AddTool(getStateTool(), economyHandler("get_state"))
	s.AddTool(saveTool(), economyHandler("save"))
	s.AddTool(loadTool(), economyHandler("load"))
}

// --- Tool definitions ---

func newEconomyTool() mcp.Tool {
	return mcp.NewTool("new_economy",
		mcp.WithDescription("Start a fresh fusion economy with starting energy, zero heat and an empty material ledger. "+
			"Fails if one is already running unless replace is true."),
		mcp.WithNumber("seed", mcp.Description("Optional non-zero seed for reproducible molecule draws")),
		mcp.WithBoolean("replace", mcp.Description("Discard the running economy if there is one")),
	)
}

func fuseTool() mcp.Tool {
	return mcp.NewTool("fuse",
		mcp.WithDescription("Fuse units of element Z-1 into one unit of element Z. Costs energy, adds heat and "+
			"returns surplus energy. Fails without changing anything if material or energy is short."),
		mcp.WithNumber("z", mcp.Required(), mcp.Description("Target atomic number, 2-118")),
	)
}

func batchFuseTool() mcp.Tool {
	return mcp.NewTool("batch_fuse",
		mcp.WithDescription("Run several fusions as one all-or-nothing unit. Every entry is checked against the "+
			"materials held before the batch, so an entry cannot consume what an earlier entry produces."),
		mcp.WithString("targets", mcp.Required(), mcp.Description("Space-separated target atomic numbers (e.g. '2 2 3')")),
	)
}

func compressTool() mcp.Tool {
	return mcp.NewTool("compress",
		mcp.WithDescription("Compress every stockpile at or above the threshold into the next element until nothing more "+
			"can be compressed. Costs no energy."),
	)
}

func upgradeTool() mcp.Tool {
	return mcp.NewTool("upgrade",
		mcp.WithDescription("Raise an equipment track by one level. coil lowers fusion cost, coolant vents more heat, "+
			"heatsink raises heat capacity, scanner widens molecule draws."),
		mcp.WithString("track", mcp.Required(), mcp.Description("One of coil, coolant, heatsink, scanner")),
	)
}

func cooldownTool() mcp.Tool {
	return mcp.NewTool("cooldown",
		mcp.WithDescription("Vent heat according to the coolant level."),
	)
}

func grantTool() mcp.Tool {
	return mcp.NewTool("grant",
		mcp.WithDescription("Add units of an element to the ledger, as a reward or starting hand would."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Element symbol, e.g. 'H'")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Positive number of units")),
	)
}

func drawMoleculeTool() mcp.Tool {
	return mcp.NewTool("draw_molecule",
		mcp.WithDescription("Draw a molecule from the catalog, weighted by rarity, complexity and research. "+
			"Only molecules whose heaviest element is within the element cap are drawable; when none is, "+
			"one unit of an element within the cap is drawn instead."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current energy, heat, equipment, milestones and materials. Read-only."),
	)
}

func saveTool() mcp.Tool {
	return mcp.NewTool("save",
		mcp.WithDescription("Store the economy in the database."),
		mcp.WithString("id", mcp.Description("Save slot id; defaults to the economy's own id")),
	)
}

func loadTool() mcp.Tool {
	return mcp.NewTool("load",
		mcp.WithDescription("Replace the running economy's state with a stored one."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Save slot id")),
	)
}

// --- Tool handlers ---

// newEconomyResponse is returned by new_economy.
type newEconomyResponse struct {
	ID    string                   `json:"id"`
	Seed  int64                    `json:"seed,omitempty"`
	State nucleonnet.ServerMessage `json:"state"`
}

func handleNewEconomy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mu.Lock()
	defer mu.Unlock()

	if activeSession != nil && !request.GetBool("replace", false) {
		return mcp.NewToolResultError("An economy is already running. Pass replace=true to discard it."), nil
	}

	seed := int64(request.GetInt("seed", 0))
	sess, err := NewEconomySession(sessionConfig, seed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start economy: %v", err), nil
	}
	activeSession = sess

	resp := newEconomyResponse{
		ID:    sess.ID(),
		Seed:  seed,
		State: sess.Handle(nucleonnet.ClientMessage{Type: nucleonnet.MsgState}),
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// economyHandler forwards a tool call to the running economy. Engine-level
// failures (short material, bad target) come back as ordinary results with
// success=false; only argument and session errors are tool errors.
func economyHandler(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess := current()
		if sess == nil {
			return mcp.NewToolResultError("No economy is running. Use new_economy first."), nil
		}

		msg, err := requestFor(tool, request)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid arguments: %v", err), nil
		}

		resp := sess.Handle(msg)
		if resp.Type == nucleonnet.MsgError {
			return mcp.NewToolResultError(respondJSON(resp)), nil
		}
		return mcp.NewToolResultText(respondJSON(resp)), nil
	}
}
