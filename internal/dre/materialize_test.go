package dre

import (
	"strings"
	"testing"
)

func buildSmallHierarchy() *Hierarchy {
	h := NewHierarchy(12)
	h.Accumulate(pathT1G1A(), 0, 100)
	h.Accumulate(ResolvedPath{
		TypeID: "T1", TypeName: "Custo",
		GroupID: "G1", GroupName: "Logística",
		CommitmentID: "B", CommitmentName: "Armazenagem",
	}, 1, 40)
	h.Accumulate(ResolvedPath{
		TypeID: "T2", TypeName: "Receita",
		GroupID: "G2", GroupName: "Vendas",
		CommitmentID: "C", CommitmentName: "Mercado Interno",
	}, 0, 500)
	return h
}

func TestMaterializePreOrderAndLinkage(t *testing.T) {
	lines, err := MaterializeLines(buildSmallHierarchy(), ViewMonth, []int{2024})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	// Siblings sort by name: Custo before Receita.
	if lines[0].ID != "type-T1" || lines[0].Level != 0 {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
	if lines[1].ID != "group-G1" || lines[1].ParentID != "type-T1" {
		t.Fatalf("group must follow its type with parent linkage, got %+v", lines[1])
	}
	if lines[2].ID != "commitment-B" || lines[2].ParentID != "group-G1" {
		t.Fatalf("commitments sort by name under the group, got %+v", lines[2])
	}
	if lines[3].ID != "commitment-A" {
		t.Fatalf("expected Frete after Armazenagem, got %+v", lines[3])
	}
	if !lines[0].Expandable || lines[3].Expandable {
		t.Fatalf("expandable must reflect children presence")
	}
	if !strings.HasPrefix(lines[2].Label, "    ") {
		t.Fatalf("level-2 label must be indented, got %q", lines[2].Label)
	}
	if lines[0].ItemID != "T1" {
		t.Fatalf("item id must carry the raw id")
	}
}

func TestMaterializeAggregatesVectors(t *testing.T) {
	lines, err := MaterializeLines(buildSmallHierarchy(), ViewYear, []int{2024})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	for _, line := range lines {
		if len(line.Values) != 1 || len(line.BudgetedValues) != 1 {
			t.Fatalf("year view must yield single-column vectors, got %+v", line)
		}
	}
	if lines[0].Values[0] != 140 {
		t.Fatalf("expected T1 yearly total 140, got %v", lines[0].Values[0])
	}
}

func TestMaterializeDeterministic(t *testing.T) {
	first, _ := MaterializeLines(buildSmallHierarchy(), ViewMonth, []int{2024})
	for i := 0; i < 10; i++ {
		again, _ := MaterializeLines(buildSmallHierarchy(), ViewMonth, []int{2024})
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("ordering not deterministic at %d: %s vs %s", j, first[j].ID, again[j].ID)
			}
		}
	}
}

func TestVisibleLinesTransitiveCollapse(t *testing.T) {
	lines, _ := MaterializeLines(buildSmallHierarchy(), ViewMonth, []int{2024})

	// Nothing expanded: only the two type lines.
	visible := VisibleLines(lines, map[string]bool{})
	if len(visible) != 2 {
		t.Fatalf("expected 2 root lines, got %d", len(visible))
	}

	// Group expanded but its type collapsed: commitments stay hidden.
	visible = VisibleLines(lines, map[string]bool{"group-G1": true})
	if len(visible) != 2 {
		t.Fatalf("expanded orphan must stay hidden, got %d lines", len(visible))
	}

	// Type and group both expanded: full T1 subtree shows.
	visible = VisibleLines(lines, map[string]bool{"type-T1": true, "group-G1": true})
	var ids []string
	for _, l := range visible {
		ids = append(ids, l.ID)
	}
	want := []string{"type-T1", "group-G1", "commitment-B", "commitment-A", "type-T2"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v got %v", want, ids)
		}
	}
}
