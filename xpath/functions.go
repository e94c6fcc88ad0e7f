package xpath

import (
	"math"
	"strings"
)

// function is one entry of the closed built-in function table, grounded on
// the {name, minArgs, maxArgs, impl} shape of getBuiltinFunctions() in the
// teacher repository (gogo-agent-xmldom/xpath.go) and on the arity-check
// idiom of original_source/src/Functions.cc's Fun::checkArgs.
type function struct {
	minArgs int
	maxArgs int // -1 means unbounded
	call    func(s *evalState, args []Expr) (Value, error)
}

func evalArg(s *evalState, args []Expr, i int) (Value, error) {
	return args[i].Eval(s)
}

func roundHalfUp(x float64) float64 {
	if isNaNFloat(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

var builtinFunctions map[string]*function

func init() {
	builtinFunctions = map[string]*function{
		"last": {0, 0, func(s *evalState, args []Expr) (Value, error) {
			return NewNumberValue(float64(s.size)), nil
		}},
		"position": {0, 0, func(s *evalState, args []Expr) (Value, error) {
			return NewNumberValue(float64(s.pos)), nil
		}},
		"count": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return v.GetNodeSetSize()
		}},
		"local-name": {0, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := contextOrArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return v.GetLocalName()
		}},
		"current": {0, 0, func(s *evalState, args []Expr) (Value, error) {
			return s.env.GetCurrent(), nil
		}},
		"string": {0, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := contextOrArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewStringValue(v.GetString()), nil
		}},
		"concat": {2, -1, func(s *evalState, args []Expr) (Value, error) {
			var buf strings.Builder
			for i := range args {
				v, err := evalArg(s, args, i)
				if err != nil {
					return Value{}, err
				}
				buf.WriteString(v.GetString())
			}
			return NewStringValue(buf.String()), nil
		}},
		"starts-with": {2, 2, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			b, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			return NewBooleanValue(strings.HasPrefix(a.GetString(), b.GetString())), nil
		}},
		"contains": {2, 2, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			b, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			return NewBooleanValue(strings.Contains(a.GetString(), b.GetString())), nil
		}},
		"substring-before": {2, 2, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			b, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			str, sep := a.GetString(), b.GetString()
			if sep == "" {
				return NewStringValue(""), nil
			}
			idx := strings.Index(str, sep)
			if idx < 0 {
				return NewStringValue(""), nil
			}
			return NewStringValue(str[:idx]), nil
		}},
		"substring-after": {2, 2, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			b, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			str, sep := a.GetString(), b.GetString()
			if sep == "" {
				return NewStringValue(str), nil
			}
			idx := strings.Index(str, sep)
			if idx < 0 {
				return NewStringValue(""), nil
			}
			return NewStringValue(str[idx+len(sep):]), nil
		}},
		"substring": {2, 3, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			startV, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			hasLen := len(args) == 3
			var lengthV Value
			if hasLen {
				lengthV, err = evalArg(s, args, 2)
				if err != nil {
					return Value{}, err
				}
			}
			return NewStringValue(xpathSubstring(a.GetString(), startV.GetNumber(), hasLen, lengthV.GetNumber())), nil
		}},
		"string-length": {0, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := contextOrArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewNumberValue(float64(len([]rune(v.GetString())))), nil
		}},
		"normalize-space": {0, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := contextOrArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewStringValue(strings.Join(strings.Fields(v.GetString()), " ")), nil
		}},
		"translate": {3, 3, func(s *evalState, args []Expr) (Value, error) {
			a, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			from, err := evalArg(s, args, 1)
			if err != nil {
				return Value{}, err
			}
			to, err := evalArg(s, args, 2)
			if err != nil {
				return Value{}, err
			}
			return NewStringValue(xpathTranslate(a.GetString(), from.GetString(), to.GetString())), nil
		}},
		"number": {0, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := contextOrArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewNumberValue(v.GetNumber()), nil
		}},
		"sum": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			if v.GetType() != NodeSet {
				return Value{}, newError(TypeError, "sum() requires a node-set")
			}
			total := 0.0
			for _, n := range v.GetNodeSet() {
				total += n.GetNumber()
			}
			return NewNumberValue(total), nil
		}},
		"floor": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewNumberValue(math.Floor(v.GetNumber())), nil
		}},
		"ceiling": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewNumberValue(math.Ceil(v.GetNumber())), nil
		}},
		"round": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewNumberValue(roundHalfUp(v.GetNumber())), nil
		}},
		"boolean": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewBooleanValue(v.GetBoolean()), nil
		}},
		"not": {1, 1, func(s *evalState, args []Expr) (Value, error) {
			v, err := evalArg(s, args, 0)
			if err != nil {
				return Value{}, err
			}
			return NewBooleanValue(!v.GetBoolean()), nil
		}},
		"true": {0, 0, func(s *evalState, args []Expr) (Value, error) {
			return NewBooleanValue(true), nil
		}},
		"false": {0, 0, func(s *evalState, args []Expr) (Value, error) {
			return NewBooleanValue(false), nil
		}},
	}
}

// contextOrArg evaluates args[i] if present, otherwise returns the current
// context value — the pattern every optional-argument string/number-style
// function in the closed set shares.
func contextOrArg(s *evalState, args []Expr, i int) (Value, error) {
	if i < len(args) {
		return evalArg(s, args, i)
	}
	return s.env.GetCurrent(), nil
}

func xpathSubstring(str string, start float64, hasLen bool, length float64) string {
	runes := []rune(str)
	n := float64(len(runes))
	rs := roundHalfUp(start)
	if isNaNFloat(rs) {
		return ""
	}
	var end float64
	if hasLen {
		rl := roundHalfUp(length)
		if isNaNFloat(rl) {
			return ""
		}
		end = rs + rl
	} else {
		end = math.Inf(1)
	}
	if isNaNFloat(end) {
		// -Infinity start plus +Infinity length: no position is in range.
		return ""
	}
	beg := math.Max(rs, 1)
	last := math.Min(end, n+1)
	if beg >= last {
		return ""
	}
	return string(runes[int(beg)-1 : int(last)-1])
}

func xpathTranslate(s, from, to string) string {
	fromRunes := []rune(from)
	toRunes := []rune(to)
	mapping := make(map[rune]rune, len(fromRunes))
	drop := make(map[rune]bool, len(fromRunes))
	for i, r := range fromRunes {
		if i < len(toRunes) {
			if _, exists := mapping[r]; !exists && !drop[r] {
				mapping[r] = toRunes[i]
			}
		} else {
			drop[r] = true
		}
	}
	var buf strings.Builder
	for _, r := range s {
		if drop[r] {
			continue
		}
		if rep, ok := mapping[r]; ok {
			buf.WriteRune(rep)
			continue
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
