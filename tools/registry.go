// Package tools provides the built-in tool registry exposed to providers
// as MCP tool definitions. Tools run locally and synchronously; their
// results are fed back into the conversation context.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Handler executes one tool invocation.
type Handler func(ctx context.Context, args map[string]any) (string, error)

type registeredTool struct {
	def     mcptypes.Tool
	handler Handler
}

// Registry holds the available tools in registration order.
type Registry struct {
	tools []registeredTool
}

// NewRegistry creates a registry with the built-in tools.
func NewRegistry() *Registry {
	r := &Registry{}

	r.Register(mcptypes.NewTool("lookup_term",
		mcptypes.WithDescription("Look up a procure-to-pay term in the P2P glossary"),
		mcptypes.WithString("term",
			mcptypes.Required(),
			mcptypes.Description("The term or abbreviation to look up, e.g. 'three-way match' or 'PO'"),
		),
	), lookupTerm)

	r.Register(mcptypes.NewTool("current_date",
		mcptypes.WithDescription("Get the current date and time"),
	), currentDate)

	return r
}

// Register adds a tool definition with its handler.
func (r *Registry) Register(def mcptypes.Tool, handler Handler) {
	r.tools = append(r.tools, registeredTool{def: def, handler: handler})
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []mcptypes.Tool {
	defs := make([]mcptypes.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.def)
	}
	return defs
}

// Execute runs a tool by name.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	for _, t := range r.tools {
		if t.def.Name == name {
			return t.handler(ctx, args)
		}
	}
	return "", fmt.Errorf("unknown tool: %s", name)
}

// glossary maps procure-to-pay terms (lowercased) to their definitions.
var glossary = map[string]string{
	"p2p":             "Procure-to-Pay: the end-to-end process from requisitioning goods or services through to paying the supplier.",
	"procure-to-pay":  "The end-to-end process from requisitioning goods or services through to paying the supplier.",
	"po":              "Purchase Order: a buyer's formal, numbered commitment to purchase goods or services from a supplier.",
	"purchase order":  "A buyer's formal, numbered commitment to purchase goods or services from a supplier.",
	"pr":              "Purchase Requisition: an internal request to procure goods or services, approved before a purchase order is created.",
	"goods receipt":   "The recorded confirmation that ordered goods or services were delivered, referenced during invoice matching.",
	"gr":              "Goods Receipt: the recorded confirmation that ordered goods or services were delivered.",
	"three-way match": "The control that matches purchase order, goods receipt and supplier invoice before payment is released.",
	"two-way match":   "The control that matches purchase order and supplier invoice, used when no goods receipt is required.",
	"vendor master":   "The master data record holding a supplier's identification, payment and tax details.",
	"payment terms":   "The agreed conditions under which an invoice is paid, such as net 30 or 2/10 net 30.",
	"invoice":         "A supplier's request for payment referencing delivered goods or services, usually against a purchase order.",
	"maverick spend":  "Purchases made outside agreed contracts or procurement channels, reducing negotiated savings.",
	"spend cube":      "A three-dimensional analysis of spend by supplier, category and business unit.",
	"dpo":             "Days Payable Outstanding: the average number of days taken to pay suppliers.",
}

func lookupTerm(_ context.Context, args map[string]any) (string, error) {
	term, ok := args["term"].(string)
	if !ok || term == "" {
		return "", fmt.Errorf("missing required argument: term")
	}

	if def, ok := glossary[strings.ToLower(strings.TrimSpace(term))]; ok {
		return def, nil
	}

	known := make([]string, 0, len(glossary))
	for k := range glossary {
		known = append(known, k)
	}
	sort.Strings(known)
	return fmt.Sprintf("No glossary entry for %q. Known terms: %s", term, strings.Join(known, ", ")), nil
}

func currentDate(_ context.Context, _ map[string]any) (string, error) {
	return time.Now().Format("Monday, January 2, 2006 15:04 MST"), nil
}
