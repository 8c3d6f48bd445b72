package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Identifier validation
	IdentInfo         Code = 1000
	IdentEmpty        Code = 1001
	IdentBadStart     Code = 1002
	IdentBadRune      Code = 1003
	IdentEmptySegment Code = 1004

	// Forward references
	RefInfo            Code = 2000
	RefBadName         Code = 2001
	RefBadScope        Code = 2002
	RefUnresolvable    Code = 2003
	RefMissingKey      Code = 2004
	RefImportFailed    Code = 2005
	RefSyntheticModule Code = 2006

	// Generic argument propagation
	GenericInfo              Code = 3000
	GenericNotGeneric        Code = 3001
	GenericTargetNotFound    Code = 3002
	GenericAmbiguousAncestor Code = 3003
	GenericBareTarget        Code = 3004
	GenericNoArgs            Code = 3005

	// Memoization
	MemoInfo        Code = 4000
	MemoVariadic    Code = 4001
	MemoKeywordCall Code = 4002

	// Universe loading / engine
	UniverseInfo        Code = 5000
	UniverseBadFile     Code = 5001
	UniverseUnknownName Code = 5002
	UniverseRedefined   Code = 5003
)

// String returns a stable, human-readable form such as "TYC2003".
func (c Code) String() string {
	return fmt.Sprintf("TYC%04d", uint16(c))
}
