package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
)

// requestFor translates a tool call into the protocol request it stands for.
// Argument errors are returned before anything reaches the engine.
func requestFor(tool string, request mcp.CallToolRequest) (nucleonnet.ClientMessage, error) {
	switch tool {
	case "fuse":
		z := request.GetFloat("z", 0)
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgFuse, Z: z}, nil

	case "batch_fuse":
		targets, err := parseTargets(request.GetString("targets", ""))
		if err != nil {
			return nucleonnet.ClientMessage{}, err
		}
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgBatch, Targets: targets}, nil

	case "compress":
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgCompress}, nil

	case "upgrade":
		track := strings.ToLower(strings.TrimSpace(request.GetString("track", "")))
		if track == "" {
			return nucleonnet.ClientMessage{}, fmt.Errorf("track is required")
		}
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgUpgrade, Track: track}, nil

	case "cooldown":
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgCooldown}, nil

	case "grant":
		symbol := strings.TrimSpace(request.GetString("symbol", ""))
		amount := request.GetInt("amount", 0)
		if symbol == "" {
			return nucleonnet.ClientMessage{}, fmt.Errorf("symbol is required")
		}
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgGrant, Symbol: symbol, Amount: amount}, nil

	case "draw_molecule":
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgDraw}, nil

	case "get_state":
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgState}, nil

	case "save":
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgSave, ID: request.GetString("id", "")}, nil

	case "load":
		id := strings.TrimSpace(request.GetString("id", ""))
		if id == "" {
			return nucleonnet.ClientMessage{}, fmt.Errorf("id is required")
		}
		return nucleonnet.ClientMessage{Type: nucleonnet.MsgLoad, ID: id}, nil

	default:
		return nucleonnet.ClientMessage{}, fmt.Errorf("unknown tool %q", tool)
	}
}

// parseTargets reads space-separated atomic numbers, e.g. "2 2 3".
func parseTargets(s string) ([]float64, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("targets must list at least one atomic number")
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		z, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target '%s': must be a number", p)
		}
		out[i] = z
	}
	return out, nil
}
