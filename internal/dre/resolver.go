package dre

// ResolvedPath is the fully resolved hierarchy triple for one transaction.
type ResolvedPath struct {
	TypeID         string
	TypeName       string
	GroupID        string
	GroupName      string
	CommitmentID   string
	CommitmentName string
}

// ResolvePath resolves a transaction's classification to a hierarchy path.
// The second return is false when the transaction contributes nothing under
// the given mode.
//
// The group and type are always taken from the classification row's own
// denormalized fields, never from the commitment master record: a
// classification may assign a commitment to a different reporting bucket
// than the commitment's default, and that assignment wins.
func ResolvePath(ref *ClassificationRef, mode ReportMode, configs ConfigBundle) (ResolvedPath, bool) {
	if ref == nil {
		return ResolvedPath{}, false
	}

	switch {
	case ref.Commitment != nil:
		path := ResolvedPath{
			CommitmentID:   ref.Commitment.ID,
			CommitmentName: entryName(ref.Commitment.Name, configs.Commitments, ref.Commitment.ID),
		}
		if ref.CommitmentGroup != nil {
			path.GroupID = ref.CommitmentGroup.ID
			path.GroupName = entryName(ref.CommitmentGroup.Name, configs.Groups, ref.CommitmentGroup.ID)
		} else {
			path.GroupID = UnknownID
			path.GroupName = UnknownGroupName
		}
		if ref.CommitmentType != nil {
			path.TypeID = ref.CommitmentType.ID
			path.TypeName = entryName(ref.CommitmentType.Name, configs.CommitmentTypes, ref.CommitmentType.ID)
		} else {
			path.TypeID = UnknownID
			path.TypeName = UnknownTypeName
		}
		return path, true

	case ref.CommitmentGroup != nil:
		// Group-only classification is admitted only in the statement view,
		// under a synthetic "Outros" commitment.
		if mode != ModeStatement {
			return ResolvedPath{}, false
		}
		path := ResolvedPath{
			CommitmentID:   OthersID,
			CommitmentName: OthersName,
			GroupID:        ref.CommitmentGroup.ID,
			GroupName:      entryName(ref.CommitmentGroup.Name, configs.Groups, ref.CommitmentGroup.ID),
		}
		if ref.CommitmentType != nil {
			path.TypeID = ref.CommitmentType.ID
			path.TypeName = entryName(ref.CommitmentType.Name, configs.CommitmentTypes, ref.CommitmentType.ID)
		} else {
			path.TypeID = UnknownID
			path.TypeName = UnknownTypeName
		}
		return path, true

	case ref.CommitmentType != nil:
		if mode != ModeStatement {
			return ResolvedPath{}, false
		}
		return ResolvedPath{
			TypeID:         ref.CommitmentType.ID,
			TypeName:       entryName(ref.CommitmentType.Name, configs.CommitmentTypes, ref.CommitmentType.ID),
			GroupID:        OthersID,
			GroupName:      OthersName,
			CommitmentID:   OthersID,
			CommitmentName: OthersName,
		}, true
	}

	return ResolvedPath{}, false
}

// entryName prefers the name carried on the classification row, then the
// configuration table, then the bare id.
func entryName(name string, table map[string]ConfigEntry, id string) string {
	if name != "" {
		return name
	}
	if entry, ok := table[id]; ok && entry.Name != "" {
		return entry.Name
	}
	return id
}
