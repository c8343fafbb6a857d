package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration construction (step 0, reported by the front-end boundary)
	DeclInfo               Code = 1000
	DeclZeroSized          Code = 1001
	DeclNotReprC           Code = 1002
	DeclNonPrimitiveConst  Code = 1003
	DeclUnsupportedLiteral Code = 1004
	DeclBadType            Code = 1005
	DeclDuplicate          Code = 1006
	DeclBadCfg             Code = 1007
	DeclUnknownKind        Code = 1008

	// Registry
	RegInfo            Code = 2000
	RegInsertConflict  Code = 2001
	RegRebuildConflict Code = 2002

	// Annotations and renaming
	AnnInfo             Code = 3000
	AnnTransferConflict Code = 3001
	AnnMultipleAliases  Code = 3002
	AnnBadRenameRule    Code = 3003

	// Monomorphization
	MonoInfo            Code = 4000
	MonoArityMismatch   Code = 4001
	MonoUnresolved      Code = 4002
	MonoDepthExceeded   Code = 4003
	MonoMissingMangling Code = 4004
	MonoNameCollision   Code = 4005

	// Dependency resolution
	DepInfo           Code = 5000
	DepValueCycle     Code = 5001
	DepUnknownInclude Code = 5002

	// Configuration and I/O
	CfgInfo        Code = 6000
	CfgUnknownKey  Code = 6001
	CfgUnmappedCfg Code = 6002
	CfgInvalid     Code = 6003
	IOLoadFailed   Code = 6004
	IOWriteFailed  Code = 6005
)

var ( // todo: use descriptions as notes in pretty output
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		DeclInfo:               "Declaration information",
		DeclZeroSized:          "Zero sized declaration",
		DeclNotReprC:           "Declaration is not repr(C)",
		DeclNonPrimitiveConst:  "Non primitive constant",
		DeclUnsupportedLiteral: "Unsupported literal expression",
		DeclBadType:            "Malformed type expression",
		DeclDuplicate:          "Duplicate declaration",
		DeclBadCfg:             "Malformed cfg predicate",
		DeclUnknownKind:        "Unknown declaration kind",
		RegInfo:                "Registry information",
		RegInsertConflict:      "Conflicting declarations under one name",
		RegRebuildConflict:     "Declarations collide after renaming",
		AnnInfo:                "Annotation information",
		AnnTransferConflict:    "Annotation transfer onto annotated target",
		AnnMultipleAliases:     "Several annotated aliases for one target",
		AnnBadRenameRule:       "Unknown rename rule",
		MonoInfo:               "Monomorphization information",
		MonoArityMismatch:      "Generic argument count mismatch",
		MonoUnresolved:         "Unresolved monomorph reference",
		MonoDepthExceeded:      "Instantiation depth exceeded",
		MonoMissingMangling:    "No mangling for generic path",
		MonoNameCollision:      "Mangled name already in use",
		DepInfo:                "Dependency information",
		DepValueCycle:          "Cycle through by-value fields",
		DepUnknownInclude:      "Included name is not declared",
		CfgInfo:                "Configuration information",
		CfgUnknownKey:          "Unknown configuration key",
		CfgUnmappedCfg:         "Cfg predicate has no define mapping",
		CfgInvalid:             "Invalid configuration",
		IOLoadFailed:           "Failed to load input",
		IOWriteFailed:          "Failed to write output",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DECL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MONO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DEP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
