package expr

import "encoding/json"

// jsonExpr is the wire format for an Expression: a flat struct with
// optional fields depending on Kind, used for catalog fixtures and the
// CLI's statement input — ParsedStatement is consumed, never parsed
// from SQL text, so fixtures supply the expression tree directly.
type jsonExpr struct {
	Kind string `json:"kind"`

	Table      string `json:"table,omitempty"`
	ColumnID   int    `json:"column_id,omitempty"`
	ColumnName string `json:"column_name,omitempty"`

	Value         any  `json:"value,omitempty"`
	PrefixPattern bool `json:"prefix_pattern,omitempty"`

	ParamIndex int         `json:"param_index,omitempty"`
	Original   *jsonExpr   `json:"original,omitempty"`

	Op    string    `json:"op,omitempty"`
	Left  *jsonExpr `json:"left,omitempty"`
	Right *jsonExpr `json:"right,omitempty"`

	FuncName string      `json:"func_name,omitempty"`
	Children []*jsonExpr `json:"children,omitempty"`

	ValueType string `json:"value_type,omitempty"`
}

var kindNames = map[Kind]string{
	KindTupleValue:      "tuple_value",
	KindConstant:        "constant",
	KindParameter:       "parameter",
	KindComparison:      "comparison",
	KindArithmeticOther: "arithmetic_other",
}

var kindValues = reverseStringMap(kindNames)

var opNames = map[Op]string{
	EQ:   "eq",
	GT:   "gt",
	GTE:  "gte",
	LT:   "lt",
	LTE:  "lte",
	LIKE: "like",
}

var opValues = reverseOpMap(opNames)

var valueTypeNames = map[ValueType]string{
	TypeUnknown:   "unknown",
	TypeBigInt:    "bigint",
	TypeInteger:   "integer",
	TypeSmallInt:  "smallint",
	TypeDouble:    "double",
	TypeDecimal:   "decimal",
	TypeVarchar:   "varchar",
	TypeTimestamp: "timestamp",
	TypeBoolean:   "boolean",
}

var valueTypeValues = reverseValueTypeMap(valueTypeNames)

// ValueTypeName renders vt in the wire-format name used by the JSON
// codec above and by catalog fixtures, e.g. TypeBigInt -> "bigint".
func ValueTypeName(vt ValueType) string { return valueTypeNames[vt] }

// ParseValueTypeName is the inverse of ValueTypeName. An unrecognized
// name maps to TypeUnknown, as the codec does for an unrecognized
// value_type.
func ParseValueTypeName(name string) ValueType { return valueTypeValues[name] }

func reverseStringMap(m map[Kind]string) map[string]Kind {
	out := make(map[string]Kind, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseOpMap(m map[Op]string) map[string]Op {
	out := make(map[string]Op, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseValueTypeMap(m map[ValueType]string) map[string]ValueType {
	out := make(map[string]ValueType, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// MarshalJSON renders e in the wire format, recursing into its
// children.
func (e *Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toWire())
}

func (e *Expression) toWire() *jsonExpr {
	if e == nil {
		return nil
	}
	w := &jsonExpr{
		Kind:          kindNames[e.Kind],
		Table:         e.Table,
		ColumnID:      e.ColumnID,
		ColumnName:    e.ColumnName,
		Value:         e.Value,
		PrefixPattern: e.PrefixPattern,
		ParamIndex:    e.ParamIndex,
		Original:      e.Original.toWire(),
		Op:            opNames[e.Op],
		Left:          e.Left.toWire(),
		Right:         e.Right.toWire(),
		FuncName:      e.FuncName,
		ValueType:     valueTypeNames[e.valType],
	}
	for _, c := range e.Children {
		w.Children = append(w.Children, c.toWire())
	}
	return w
}

// UnmarshalJSON populates e from the wire format.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var w jsonExpr
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := w.toExpr()
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

func (w *jsonExpr) toExpr() (*Expression, error) {
	if w == nil {
		return nil, nil
	}
	vt := valueTypeValues[w.ValueType]

	kind, ok := kindValues[w.Kind]
	if !ok {
		return nil, &UnknownKindError{Kind: w.Kind}
	}
	switch kind {
	case KindTupleValue:
		return TupleValue(w.Table, w.ColumnID, w.ColumnName, vt), nil
	case KindConstant:
		return Constant(w.Value, vt, w.PrefixPattern), nil
	case KindParameter:
		original, err := w.Original.toExpr()
		if err != nil {
			return nil, err
		}
		return Parameter(w.ParamIndex, original, vt), nil
	case KindComparison:
		left, err := w.Left.toExpr()
		if err != nil {
			return nil, err
		}
		right, err := w.Right.toExpr()
		if err != nil {
			return nil, err
		}
		return Comparison(opValues[w.Op], left, right), nil
	case KindArithmeticOther:
		children := make([]*Expression, 0, len(w.Children))
		for _, c := range w.Children {
			ce, err := c.toExpr()
			if err != nil {
				return nil, err
			}
			children = append(children, ce)
		}
		return ArithmeticOrOther(w.FuncName, vt, children...), nil
	default:
		return nil, &UnknownKindError{Kind: w.Kind}
	}
}

// UnknownKindError is returned when a wire expression names a kind this
// version of the package doesn't recognize.
type UnknownKindError struct{ Kind string }

func (e *UnknownKindError) Error() string { return "expr: unknown expression kind " + e.Kind }
