package types

import (
	"fmt"
	"strings"

	"sable/internal/source"
)

// Label returns a user-friendly label for a TypeID, for diagnostics.
func Label(in *Interner, id TypeID) string {
	return labelDepth(in, id, 0)
}

func labelDepth(in *Interner, id TypeID, depth int) string {
	if id == NoTypeID || in == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindNothing:
		return "nothing"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return formatNumeric("int", tt.Width)
	case KindUint:
		return formatNumeric("uint", tt.Width)
	case KindFloat:
		return formatNumeric("float", tt.Width)
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(in, tt.Elem, depth+1)
		}
		return "&" + labelDepth(in, tt.Elem, depth+1)
	case KindOwn:
		return "own " + labelDepth(in, tt.Elem, depth+1)
	case KindArray:
		elem := labelDepth(in, tt.Elem, depth+1)
		if tt.Count == ArrayDynamicLength {
			return elem + "[]"
		}
		return fmt.Sprintf("%s[%d]", elem, tt.Count)
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return "?"
		}
		name := lookupName(in.Strings, info.Name)
		if len(info.TypeArgs) == 0 {
			return name
		}
		args := make([]string, len(info.TypeArgs))
		for i, arg := range info.TypeArgs {
			args[i] = labelDepth(in, arg, depth+1)
		}
		return name + "<" + strings.Join(args, ", ") + ">"
	case KindAlias:
		info, ok := in.AliasInfo(id)
		if !ok {
			return "?"
		}
		return lookupName(in.Strings, info.Name)
	case KindGenericParam:
		if info, ok := in.TypeParamInfo(id); ok {
			if name := lookupName(in.Strings, info.Name); name != "?" {
				return name
			}
		}
		return "T"
	default:
		return "?"
	}
}

func formatNumeric(base string, width Width) string {
	if width == WidthAny {
		return base
	}
	return fmt.Sprintf("%s%d", base, width)
}

func lookupName(strings *source.Interner, id source.StringID) string {
	if strings == nil || id == source.NoStringID {
		return "?"
	}
	if name, ok := strings.Lookup(id); ok && name != "" {
		return name
	}
	return "?"
}
