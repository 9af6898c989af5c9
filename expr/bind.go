package expr

// BindToIndexedExpression decides whether candidate has the same shape
// as the catalog's indexed expression indexed, and if so what parameter
// bindings are required for the match to stay valid on reuse (spec
// §4.1, §4.3). The three possible outcomes are:
//
//	ok == false                 -> no match ("none" in spec terms)
//	ok == true, bindings == nil -> match, no binding required
//	ok == true, len(bindings)>0 -> match, valid only while those
//	                                parameters hold the given values
//
// Matching is purely structural: function name and arity must agree at
// every level, TupleValue leaves must reference the same column, and a
// Constant leaf in indexed may be matched either by an identical
// Constant in candidate or by a Parameter in candidate — the latter
// produces a binding requiring that parameter to carry the indexed
// value.
func BindToIndexedExpression(candidate, indexed *Expression) (bindings []*Expression, ok bool) {
	return bindRec(candidate, indexed, nil)
}

func bindRec(candidate, indexed *Expression, acc []*Expression) ([]*Expression, bool) {
	if indexed == nil {
		return nil, false
	}
	switch indexed.Kind {
	case KindTupleValue:
		if candidate == nil || candidate.Kind != KindTupleValue {
			return nil, false
		}
		if candidate.Table != indexed.Table || candidate.ColumnID != indexed.ColumnID {
			return nil, false
		}
		return acc, true

	case KindConstant:
		switch {
		case candidate == nil:
			return nil, false
		case candidate.Kind == KindConstant:
			if !constantsEqual(candidate.Value, indexed.Value) {
				return nil, false
			}
			return acc, true
		case candidate.Kind == KindParameter:
			required := Parameter(candidate.ParamIndex, Constant(indexed.Value, indexed.ValueType(), indexed.PrefixPattern), candidate.ValueType())
			return append(append([]*Expression{}, acc...), required), true
		default:
			return nil, false
		}

	case KindArithmeticOther:
		if candidate == nil || candidate.Kind != KindArithmeticOther {
			return nil, false
		}
		if candidate.FuncName != indexed.FuncName || len(candidate.Children) != len(indexed.Children) {
			return nil, false
		}
		cur := acc
		for i := range indexed.Children {
			next, ok := bindRec(candidate.Children[i], indexed.Children[i], cur)
			if !ok {
				return nil, false
			}
			cur = next
		}
		return cur, true

	default:
		return nil, false
	}
}

func constantsEqual(a, b any) bool {
	return a == b
}
