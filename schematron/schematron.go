// Package schematron implements the JSON-expressed, Schematron-inspired
// validation layer described in spec §4.H: pattern -> rule -> assert,
// context/test XPath compiled and evaluated against a jstr/xpath document.
// It depends only on xpath's public API, matching the "driver specified
// only at its interface to the core" boundary spec §1 calls for.
package schematron

import (
	"encoding/json"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/PerNilsson360/jstr/xpath"
)

// cacheSize bounds the per-process compiled-expression cache. A Schematron
// document's context/test expressions are a small closed set re-evaluated
// once per context node, so a modest capacity-bounded LRU is enough; this
// is a separate cache from xpath's own groupcache/lru-based one; a
// generics-based hashicorp/golang-lru/v2 cache is a better fit here since
// the entries are always *xpath.Expression (no interface{} unboxing needed
// at lookup time).
const cacheSize = 128

var exprCache, _ = lru.New[string, *xpath.Expression](cacheSize)

func compile(xpathExpr string) (*xpath.Expression, error) {
	if e, ok := exprCache.Get(xpathExpr); ok {
		return e, nil
	}
	e, err := xpath.Compile(xpathExpr)
	if err != nil {
		return nil, err
	}
	exprCache.Add(xpathExpr, e)
	return e, nil
}

// jsonObject is the minimal shape the schema document (itself plain
// decoded JSON, not a jstr/xpath Document) is walked as; arrays are
// handled by asList.
type jsonObject = map[string]interface{}

// Eval validates data against schematron, writing one diagnostic line per
// failing assertion to out (format: "<name>, error: <message>", matching
// original_source/src/Jstr.cc::evalExpression) and returning true iff every
// assertion held for every context node of every rule of every pattern.
func Eval(schematron interface{}, data *xpath.Document, out io.Writer) (bool, error) {
	root := schematron
	patternsField, err := getField(root, "pattern")
	if err != nil {
		return false, err
	}
	env, err := xpath.NewEnv(xpath.NewNodeValue(data.Root()))
	if err != nil {
		return false, err
	}
	ok := true
	for _, pat := range asList(patternsField) {
		r, err := evalPattern(pat, env, out)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

func evalPattern(pattern interface{}, env *xpath.Env, out io.Writer) (bool, error) {
	name, err := getPropertyString(pattern, "name")
	if err != nil {
		return false, err
	}
	ruleField, err := getField(pattern, "rule")
	if err != nil {
		return false, err
	}
	ok := true
	for _, rule := range asList(ruleField) {
		r, err := evalRule(name, rule, env, out)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

func evalRule(name string, rule interface{}, docEnv *xpath.Env, out io.Writer) (bool, error) {
	contextExpr, err := getPropertyString(rule, "context")
	if err != nil {
		return false, err
	}
	expr, err := compile(contextExpr)
	if err != nil {
		return false, err
	}
	contextValue, err := expr.Eval(docEnv)
	if err != nil {
		return false, err
	}
	assertField, err := getField(rule, "assert")
	if err != nil {
		return false, err
	}
	ok := true
	for _, assertion := range asList(assertField) {
		r, err := evalAssert(name, assertion, contextValue, docEnv, out)
		if err != nil {
			return false, err
		}
		ok = ok && r
	}
	return ok, nil
}

// evalAssert reports one diagnostic line ("<pattern name>, error:
// <message>") per failing context node. name is the enclosing pattern's
// name — an assert object itself has no "name" field, only "test" and
// "message" (spec §6; original_source/src/Jstr.cc's evalAssert takes name
// as a parameter threaded down from evalPattern, not read off assert).
func evalAssert(name string, assertion interface{}, contextValue xpath.Value, docEnv *xpath.Env, out io.Writer) (bool, error) {
	testExpr, err := getPropertyString(assertion, "test")
	if err != nil {
		return false, err
	}
	message, err := getPropertyString(assertion, "message")
	if err != nil {
		return false, err
	}
	expr, err := compile(testExpr)
	if err != nil {
		return false, err
	}

	ok := true
	if contextValue.GetType() == xpath.NodeSet {
		// Every context node is evaluated, even after an earlier one has
		// already failed — evalAssert in the original does not
		// short-circuit across nodes, so every failing node gets its own
		// diagnostic line.
		for _, n := range contextValue.GetNodeSet() {
			nodeEnv := docEnv.WithCurrent(xpath.NewNodeValue(n))
			r, err := expr.Eval(nodeEnv)
			if err != nil {
				return false, err
			}
			if !r.GetBoolean() {
				fmt.Fprintf(out, "%s, error: %s\n", name, message)
				ok = false
			}
		}
	} else {
		scalarEnv := docEnv.WithCurrent(contextValue)
		r, err := expr.Eval(scalarEnv)
		if err != nil {
			return false, err
		}
		if !r.GetBoolean() {
			fmt.Fprintf(out, "%s, error: %s\n", name, message)
			ok = false
		}
	}
	return ok, nil
}

func asList(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	default:
		return []interface{}{t}
	}
}

func getField(obj interface{}, name string) (interface{}, error) {
	m, ok := obj.(jsonObject)
	if !ok {
		return nil, newSchemaError("expected a JSON object while looking for %q", name)
	}
	v, ok := m[name]
	if !ok {
		return nil, newSchemaError("missing required field %q", name)
	}
	return v, nil
}

func getPropertyString(obj interface{}, name string) (string, error) {
	v, err := getField(obj, name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", newSchemaError("field %q must be a string", name)
	}
	return s, nil
}

func newSchemaError(format string, args ...interface{}) error {
	return &xpath.Error{Kind: xpath.SchemaError, Msg: fmt.Sprintf("schematron: "+format, args...)}
}

// DecodeSchema reads a Schematron document's JSON representation. Unlike
// xpath.NewDocument, key order does not matter here: the schema is walked
// directly as a plain decoded tree, never projected into xpath Nodes, so
// the ordinary (order-losing) encoding/json.Unmarshal is the right tool —
// not the order-preserving decoder xpath.NewDocument uses for JSON that
// becomes navigable document content.
func DecodeSchema(r io.Reader) (interface{}, error) {
	var v interface{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, &xpath.Error{Kind: xpath.SchemaError, Msg: "schematron: decoding schema", Err: err}
	}
	return v, nil
}

// EvalJSON is the convenience entry point mirroring
// Jstr::Schematron::eval(schematron, data, out) in the original: decode
// both inputs and validate in one call.
func EvalJSON(schemaR, dataR io.Reader, out io.Writer) (bool, error) {
	schema, err := DecodeSchema(schemaR)
	if err != nil {
		return false, err
	}
	doc, err := xpath.NewDocument(dataR)
	if err != nil {
		return false, err
	}
	return Eval(schema, doc, out)
}
