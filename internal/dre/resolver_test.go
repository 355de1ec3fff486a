package dre

import "testing"

func TestResolvePathPrefersClassificationBucketOverCommitmentDefault(t *testing.T) {
	// The classification row reassigns commitment C1 to group G2/type T2;
	// the config tables still carry the commitment's default linkage and
	// must not win.
	configs := ConfigBundle{
		Commitments: map[string]ConfigEntry{"C1": {ID: "C1", Name: "Frete", ParentID: "G1"}},
		Groups:      map[string]ConfigEntry{"G1": {ID: "G1", Name: "Logística", ParentID: "T1"}},
		CommitmentTypes: map[string]ConfigEntry{
			"T1": {ID: "T1", Name: "Custo"},
			"T2": {ID: "T2", Name: "Despesa"},
		},
	}
	ref := &ClassificationRef{
		Commitment:      &EntityRef{ID: "C1", Name: "Frete"},
		CommitmentGroup: &EntityRef{ID: "G2", Name: "Comercial"},
		CommitmentType:  &EntityRef{ID: "T2", Name: "Despesa"},
	}
	path, ok := ResolvePath(ref, ModeBudget, configs)
	if !ok {
		t.Fatalf("expected resolution")
	}
	if path.GroupID != "G2" || path.TypeID != "T2" {
		t.Fatalf("expected classification-carried bucket G2/T2, got %s/%s", path.GroupID, path.TypeID)
	}
}

func TestResolvePathMissingGroupAndType(t *testing.T) {
	ref := &ClassificationRef{Commitment: &EntityRef{ID: "C1", Name: "Frete"}}
	path, ok := ResolvePath(ref, ModeBudget, ConfigBundle{})
	if !ok {
		t.Fatalf("expected resolution")
	}
	if path.GroupID != UnknownID || path.GroupName != UnknownGroupName {
		t.Fatalf("unexpected group fallback: %s/%s", path.GroupID, path.GroupName)
	}
	if path.TypeID != UnknownID || path.TypeName != UnknownTypeName {
		t.Fatalf("unexpected type fallback: %s/%s", path.TypeID, path.TypeName)
	}
}

func TestResolvePathGroupOnlyDependsOnMode(t *testing.T) {
	ref := &ClassificationRef{
		CommitmentGroup: &EntityRef{ID: "G1", Name: "Logística"},
		CommitmentType:  &EntityRef{ID: "T1", Name: "Custo"},
	}
	if _, ok := ResolvePath(ref, ModeBudget, ConfigBundle{}); ok {
		t.Fatalf("budget mode must exclude group-only classifications")
	}
	path, ok := ResolvePath(ref, ModeStatement, ConfigBundle{})
	if !ok {
		t.Fatalf("statement mode must admit group-only classifications")
	}
	if path.CommitmentID != OthersID || path.CommitmentName != OthersName {
		t.Fatalf("expected synthetic Outros commitment, got %s/%s", path.CommitmentID, path.CommitmentName)
	}
}

func TestResolvePathTypeOnlySynthesizesOutros(t *testing.T) {
	ref := &ClassificationRef{CommitmentType: &EntityRef{ID: "T1", Name: "Custo"}}
	path, ok := ResolvePath(ref, ModeStatement, ConfigBundle{})
	if !ok {
		t.Fatalf("expected resolution")
	}
	if path.GroupID != OthersID || path.CommitmentID != OthersID {
		t.Fatalf("expected outros group and commitment, got %s/%s", path.GroupID, path.CommitmentID)
	}
}

func TestResolvePathUnclassified(t *testing.T) {
	if _, ok := ResolvePath(nil, ModeBudget, ConfigBundle{}); ok {
		t.Fatalf("nil classification must not resolve")
	}
	if _, ok := ResolvePath(&ClassificationRef{}, ModeStatement, ConfigBundle{}); ok {
		t.Fatalf("empty classification must not resolve")
	}
}

func TestResolvePathNameFallsBackToConfigs(t *testing.T) {
	configs := ConfigBundle{
		Commitments: map[string]ConfigEntry{"C1": {ID: "C1", Name: "Frete"}},
	}
	ref := &ClassificationRef{Commitment: &EntityRef{ID: "C1"}}
	path, _ := ResolvePath(ref, ModeBudget, configs)
	if path.CommitmentName != "Frete" {
		t.Fatalf("expected config name fallback, got %q", path.CommitmentName)
	}
}
