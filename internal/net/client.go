package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Client connects to an economy server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
}

// Connect dials a server and runs the REPL on stdin/stdout.
func Connect(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Println("Connected! Type 'help' for commands.")

	client := &Client{conn: conn, in: os.Stdin, out: os.Stdout}
	return client.RunREPL(ctx)
}

// RunREPL reads commands, sends them and renders each response.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	if err := enc.Encode(ClientMessage{Type: MsgState}); err != nil {
		return fmt.Errorf("send state: %w", err)
	}

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		c.render(msg)

		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprint(c.out, "> ")
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return nil
			}
			line = strings.TrimSpace(line)
			switch line {
			case "":
				continue
			case "quit", "exit":
				return nil
			case "help":
				fmt.Fprint(c.out, helpText)
				continue
			}

			req, perr := ParseCommand(line)
			if perr != nil {
				fmt.Fprintln(c.out, perr)
				continue
			}
			if err := enc.Encode(req); err != nil {
				return fmt.Errorf("send %s: %w", req.Type, err)
			}
			break
		}
	}
}

const helpText = `Commands:
  fuse Z              fuse toward atomic number Z
  batch Z Z ...       fuse several targets as one unit
  compress            run the compression cascade
  upgrade TRACK       coil, coolant, heatsink or scanner
  cooldown            vent heat
  grant SYMBOL N      add N units of a base material
  draw                draw a molecule
  state               show the economy
  save [ID]           store the economy
  load ID             restore a stored economy
  quit
`

// ParseCommand turns one REPL line into a request.
func ParseCommand(line string) (ClientMessage, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return ClientMessage{}, fmt.Errorf("empty command")
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case MsgFuse:
		if len(args) != 1 {
			return ClientMessage{}, fmt.Errorf("usage: fuse Z")
		}
		z, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return ClientMessage{}, fmt.Errorf("target %q is not a number", args[0])
		}
		return ClientMessage{Type: MsgFuse, Z: z}, nil

	case MsgBatch:
		if len(args) == 0 {
			return ClientMessage{}, fmt.Errorf("usage: batch Z Z ...")
		}
		targets := make([]float64, len(args))
		for i, a := range args {
			z, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return ClientMessage{}, fmt.Errorf("target %q is not a number", a)
			}
			targets[i] = z
		}
		return ClientMessage{Type: MsgBatch, Targets: targets}, nil

	case MsgUpgrade:
		if len(args) != 1 {
			return ClientMessage{}, fmt.Errorf("usage: upgrade TRACK")
		}
		return ClientMessage{Type: MsgUpgrade, Track: strings.ToLower(args[0])}, nil

	case MsgGrant:
		if len(args) != 2 {
			return ClientMessage{}, fmt.Errorf("usage: grant SYMBOL N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return ClientMessage{}, fmt.Errorf("amount %q is not a whole number", args[1])
		}
		return ClientMessage{Type: MsgGrant, Symbol: args[0], Amount: n}, nil

	case MsgSave:
		if len(args) > 1 {
			return ClientMessage{}, fmt.Errorf("usage: save [ID]")
		}
		msg := ClientMessage{Type: MsgSave}
		if len(args) == 1 {
			msg.ID = args[0]
		}
		return msg, nil

	case MsgLoad:
		if len(args) != 1 {
			return ClientMessage{}, fmt.Errorf("usage: load ID")
		}
		return ClientMessage{Type: MsgLoad, ID: args[0]}, nil

	case MsgCompress, MsgCooldown, MsgDraw, MsgState:
		if len(args) != 0 {
			return ClientMessage{}, fmt.Errorf("usage: %s", cmd)
		}
		return ClientMessage{Type: cmd}, nil

	default:
		return ClientMessage{}, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (c *Client) render(msg ServerMessage) {
	for _, ev := range msg.Events {
		c.renderEvent(ev)
	}

	switch msg.Type {
	case MsgError:
		fmt.Fprintf(c.out, "Error: %s\n", msg.Error)
	case MsgFuse:
		if f := msg.Fusion; f != nil && !f.Success {
			fmt.Fprintf(c.out, "Fusion failed: %s (%s)\n", f.Reason, f.Detail)
		}
	case MsgBatch:
		if b := msg.Batch; b != nil && !b.Success {
			fmt.Fprintf(c.out, "Batch failed at entry %d: %s (%s)\n", b.FailedIndex, b.Reason, b.Detail)
		}
	case MsgCompress:
		if len(msg.Compression) == 0 {
			fmt.Fprintln(c.out, "Nothing to compress.")
		}
	case MsgUpgrade:
		if !msg.Upgraded {
			fmt.Fprintln(c.out, "Track is already at its maximum level.")
		}
	case MsgDraw:
		if m := msg.Molecule; m != nil {
			fmt.Fprintf(c.out, "Drew %s (%s)\n", m.Name, m.Rarity)
		}
		if msg.Element != "" {
			fmt.Fprintf(c.out, "No molecule in reach, drew %s\n", msg.Element)
		}
	case MsgSave:
		fmt.Fprintf(c.out, "Saved as %s\n", msg.ID)
	case MsgLoad:
		fmt.Fprintf(c.out, "Loaded %s\n", msg.ID)
	}

	if len(msg.Cards) > 0 {
		fmt.Fprintf(c.out, "New cards: %s\n", strings.Join(msg.Cards, " "))
	}
	if msg.State != nil && (msg.Type == MsgState || msg.Type == MsgLoad) {
		c.renderState(msg)
	}
}

func (c *Client) renderEvent(ev EventView) {
	kind := ev.Type
	for len(kind) < 14 {
		kind += " "
	}
	fmt.Fprintf(c.out, "#%-3d %s| %s\n", ev.Op, kind, ev.Details)
}

func (c *Client) renderState(msg ServerMessage) {
	st := msg.State

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  Energy: %.0f   Heat: %.0f/%.0f   Research: %d   Cap: Z≤%d\n",
		st.Energy, st.Heat, st.HeatCapacity, st.ResearchLevel, st.ElementCap)

	fmt.Fprint(c.out, "║  Equipment: ")
	for _, k := range sortedKeys(st.Equipment) {
		fmt.Fprintf(c.out, "%s %d  ", k, st.Equipment[k])
	}
	fmt.Fprintln(c.out)

	fmt.Fprint(c.out, "║  Milestones: ")
	for _, k := range sortedKeys(st.Milestones) {
		if st.Milestones[k] {
			fmt.Fprintf(c.out, "[%s] ", k)
		}
	}
	fmt.Fprintln(c.out)

	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	fmt.Fprint(c.out, "║  Materials: ")
	for _, k := range sortedKeys(st.Materials) {
		fmt.Fprintf(c.out, "%s×%d  ", k, st.Materials[k])
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
