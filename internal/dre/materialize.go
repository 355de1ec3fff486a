package dre

import (
	"sort"
	"strings"
)

const indentPerLevel = "  "

// MaterializeLines flattens the hierarchy into an ordered list of display
// lines via a pre-order walk (type, its groups, each group's commitments).
// Vectors are period-aggregated before materialization so every line's
// Values/BudgetedValues line up with the report's column labels. Sibling
// order is by name then id, which keeps the output deterministic across
// runs regardless of map iteration order.
func MaterializeLines(h *Hierarchy, view ViewType, years []int) ([]DRELine, error) {
	yearCount := len(years)
	lines := make([]DRELine, 0, len(h.Types)*4)

	for _, typeNode := range sortedChildren(h.Types) {
		typeLine, err := materializeNode(typeNode, LineCommitmentType, "type-"+typeNode.ID, "", view, yearCount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, typeLine)

		for _, groupNode := range sortedChildren(typeNode.Children) {
			groupLine, err := materializeNode(groupNode, LineCommitmentGroup, "group-"+groupNode.ID, typeLine.ID, view, yearCount)
			if err != nil {
				return nil, err
			}
			lines = append(lines, groupLine)

			for _, commitmentNode := range sortedChildren(groupNode.Children) {
				commitmentLine, err := materializeNode(commitmentNode, LineCommitment, "commitment-"+commitmentNode.ID, groupLine.ID, view, yearCount)
				if err != nil {
					return nil, err
				}
				lines = append(lines, commitmentLine)
			}
		}
	}
	return lines, nil
}

func materializeNode(node *Node, lineType LineType, id, parentID string, view ViewType, yearCount int) (DRELine, error) {
	values, err := AggregatePeriods(node.Values, view, yearCount)
	if err != nil {
		return DRELine{}, err
	}
	budgeted, err := AggregatePeriods(node.BudgetedValues, view, yearCount)
	if err != nil {
		return DRELine{}, err
	}
	return DRELine{
		ID:             id,
		Label:          strings.Repeat(indentPerLevel, node.Level) + node.Name,
		Type:           lineType,
		Level:          node.Level,
		Values:         values,
		BudgetedValues: budgeted,
		Expandable:     len(node.Children) > 0,
		ParentID:       parentID,
		ItemID:         node.ID,
	}, nil
}

func sortedChildren(nodes map[string]*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// VisibleLines filters lines by expansion state. A root line is always
// visible; a deeper line is visible only while its parent is expanded and
// the parent itself is visible, so collapsing a type hides its whole
// subtree. Pure function of (lines, expanded); no line is mutated.
func VisibleLines(lines []DRELine, expanded map[string]bool) []DRELine {
	visible := make(map[string]bool, len(lines))
	out := make([]DRELine, 0, len(lines))
	for _, line := range lines {
		if line.Level == 0 {
			visible[line.ID] = true
			out = append(out, line)
			continue
		}
		if expanded[line.ParentID] && visible[line.ParentID] {
			visible[line.ID] = true
			out = append(out, line)
		}
	}
	return out
}
