package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Name resolution
	ResolveInfo                Code = 3000
	ResolveUndefinedIdentifier Code = 3001
	ResolveRedefinition        Code = 3002
	ResolveInternal            Code = 3003
	ResolveShadowedGlobal      Code = 3004

	// Call-argument binding
	CallUnknownArgName Code = 3101
	CallDuplicateArg   Code = 3102
	CallMissingArg     Code = 3103
	CallTooManyArgs    Code = 3104

	// Realization
	RealizeInfo             Code = 4000
	RealizeLimitExceeded    Code = 4001
	RealizeDefaultCallCycle Code = 4002
	RealizeReturnMismatch   Code = 4003

	// Unification (surfaced on behalf of the external solver)
	TypeUnifyMismatch Code = 4101
	TypeOccursCheck   Code = 4102
)

func (c Code) String() string {
	switch c {
	case ResolveInfo:
		return "RES0000"
	case ResolveUndefinedIdentifier:
		return "RES0001"
	case ResolveRedefinition:
		return "RES0002"
	case ResolveInternal:
		return "RES0003"
	case ResolveShadowedGlobal:
		return "RES0004"
	case CallUnknownArgName:
		return "CAL0001"
	case CallDuplicateArg:
		return "CAL0002"
	case CallMissingArg:
		return "CAL0003"
	case CallTooManyArgs:
		return "CAL0004"
	case RealizeInfo:
		return "REA0000"
	case RealizeLimitExceeded:
		return "REA0001"
	case RealizeDefaultCallCycle:
		return "REA0002"
	case RealizeReturnMismatch:
		return "REA0003"
	case TypeUnifyMismatch:
		return "TYP0001"
	case TypeOccursCheck:
		return "TYP0002"
	case UnknownCode:
		return "UNK0000"
	}
	return fmt.Sprintf("COD%04d", uint16(c))
}
