package dre

import (
	"math"
	"time"
)

// Node is one entry of the three-level hierarchy. Values and BudgetedValues
// are fixed-length monthly vectors (12 per selected year); a parent's entry
// at index i equals the sum of its children's entries at i, maintained
// eagerly at accumulation time.
type Node struct {
	ID             string
	Name           string
	Level          int
	Values         []float64
	BudgetedValues []float64
	Children       map[string]*Node
}

// Hierarchy is the working tree built during one aggregation pass. It is
// owned by a single invocation and discarded after materialization; callers
// must not share an instance across concurrent passes.
type Hierarchy struct {
	Types        map[string]*Node
	VectorLength int
}

// NewHierarchy returns an empty hierarchy with the given period vector
// length (12 for single-year, 12*N for N years).
func NewHierarchy(vectorLength int) *Hierarchy {
	return &Hierarchy{
		Types:        make(map[string]*Node),
		VectorLength: vectorLength,
	}
}

func newNode(id, name string, level, vectorLength int) *Node {
	return &Node{
		ID:             id,
		Name:           name,
		Level:          level,
		Values:         make([]float64, vectorLength),
		BudgetedValues: make([]float64, vectorLength),
		Children:       make(map[string]*Node),
	}
}

// ensurePath lazily creates the type/group/commitment chain and returns the
// three nodes. Names only stick on first creation; later spellings of the
// same id do not rename an existing node.
func (h *Hierarchy) ensurePath(path ResolvedPath) (typeNode, groupNode, commitmentNode *Node) {
	typeNode = h.Types[path.TypeID]
	if typeNode == nil {
		typeNode = newNode(path.TypeID, path.TypeName, 0, h.VectorLength)
		h.Types[path.TypeID] = typeNode
	}
	groupNode = typeNode.Children[path.GroupID]
	if groupNode == nil {
		groupNode = newNode(path.GroupID, path.GroupName, 1, h.VectorLength)
		typeNode.Children[path.GroupID] = groupNode
	}
	commitmentNode = groupNode.Children[path.CommitmentID]
	if commitmentNode == nil {
		commitmentNode = newNode(path.CommitmentID, path.CommitmentName, 2, h.VectorLength)
		groupNode.Children[path.CommitmentID] = commitmentNode
	}
	return typeNode, groupNode, commitmentNode
}

// Accumulate writes amount into Values[periodIndex] at all three levels of
// the resolved path, creating missing nodes. The eager multi-level write is
// what keeps the parent-equals-sum-of-children invariant without a separate
// roll-up pass.
func (h *Hierarchy) Accumulate(path ResolvedPath, periodIndex int, amount float64) {
	if periodIndex < 0 || periodIndex >= h.VectorLength {
		return
	}
	typeNode, groupNode, commitmentNode := h.ensurePath(path)
	typeNode.Values[periodIndex] += amount
	groupNode.Values[periodIndex] += amount
	commitmentNode.Values[periodIndex] += amount
}

// SignedAmount converts a transaction's stored magnitude and kind into the
// signed contribution. The absolute value is taken first so inconsistently
// signed upstream rows still land on the kind-derived sign.
func SignedAmount(tx TransactionRecord) float64 {
	magnitude := math.Abs(tx.Amount)
	if math.IsNaN(magnitude) {
		magnitude = 0
	}
	if tx.Kind == KindDebit {
		return -magnitude
	}
	return magnitude
}

// PeriodIndex maps a transaction date onto the monthly vector for the
// selected year list. The second return is false when the date's year is
// not in the selection.
func PeriodIndex(date time.Time, years []int) (int, bool) {
	offset := yearOffset(date.Year(), years)
	if offset < 0 {
		return 0, false
	}
	return int(date.Month()) - 1 + 12*offset, true
}

func yearOffset(year int, years []int) int {
	for i, y := range years {
		if y == year {
			return i
		}
	}
	return -1
}
