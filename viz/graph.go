// ABOUTME: Lead transfer graph generation
// ABOUTME: Renders who shared which leads with whom as a Graphviz document
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/adda/models"
)

// TransferGraph builds a broker network from lead transfers. Brokers are
// nodes; each transfer is an edge labelled with the customer name.
type TransferGraph struct {
	leads []models.Lead
}

func NewTransferGraph(leads []models.Lead) *TransferGraph {
	return &TransferGraph{leads: leads}
}

// Generate returns the graph in xdot format.
func (g *TransferGraph) Generate(ctx context.Context) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Lead Transfers")
	graph.SetRankDir(cgraph.LRRank)

	nodes := make(map[string]*cgraph.Node)
	node := func(prefix string, ref *models.Ref, shape, color string) (*cgraph.Node, error) {
		key := prefix + "_" + ref.ID
		if n, ok := nodes[key]; ok {
			return n, nil
		}
		n, err := graph.CreateNodeByName(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create node: %w", err)
		}
		n.SetLabel(ref.Label())
		n.SetShape(cgraph.Shape(shape))
		n.SetStyle("filled")
		n.SetFillColor(color)
		nodes[key] = n
		return n, nil
	}

	everyone := &models.Ref{ID: "all", Name: "All brokers"}
	edges := 0
	for _, lead := range g.leads {
		for _, t := range lead.Transfers {
			if t.FromBroker == nil {
				continue
			}
			from, err := node("broker", t.FromBroker, "ellipse", "lightblue")
			if err != nil {
				return "", err
			}

			var to *cgraph.Node
			switch {
			case t.ToBroker != nil:
				to, err = node("broker", t.ToBroker, "ellipse", "lightblue")
			case t.Region != nil:
				to, err = node("region", t.Region, "box", "lightgreen")
			case t.ShareType == models.ShareAll:
				to, err = node("all", everyone, "doublecircle", "lightyellow")
			default:
				continue
			}
			if err != nil {
				return "", err
			}

			edges++
			edge, err := graph.CreateEdgeByName(fmt.Sprintf("%s_%d", lead.ID, edges), from, to)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(lead.CustomerName)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

// Edges counts the transfers the graph will draw.
func (g *TransferGraph) Edges() int {
	n := 0
	for _, lead := range g.leads {
		for _, t := range lead.Transfers {
			if t.FromBroker != nil && (t.ToBroker != nil || t.Region != nil || t.ShareType == models.ShareAll) {
				n++
			}
		}
	}
	return n
}
