// Package irjson decodes the JSON encoding cmd/quint accepts as input:
// a plain, hand-writable serialization of an ir.Module. spec.md leaves
// "a concrete serialization... not required" for the IR the evaluator
// consumes, so this is a supplemented feature giving the CLI something
// to read without pulling in a real Quint parser (still out of scope,
// per spec.md's Non-goals) — grounded on the teacher's own preference
// for encoding/json over a third-party codec for its own tooling-facing
// formats (e.g. its LSP JSON-RPC framing), since none of the pack's
// wire-format libraries (protobuf, gRPC) fit a tree-shaped document
// like this one.
package irjson

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/quint-lang/quint-core/internal/ir"
)

type jsonModule struct {
	Name string    `json:"name"`
	Defs []jsonDef `json:"defs"`
}

type jsonDef struct {
	Kind      string     `json:"kind"` // opdef | var | const | assume
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Qualifier string     `json:"qualifier,omitempty"` // for opdef
	Params    []string   `json:"params,omitempty"`
	ParamIDs  []int64    `json:"paramIds,omitempty"`
	Body      *jsonExpr  `json:"body,omitempty"`
	Pred      *jsonExpr  `json:"pred,omitempty"` // for assume
}

type jsonExpr struct {
	Kind  string      `json:"kind"` // bool | int | str | name | app | lambda | let
	ID    int64       `json:"id"`
	Bool  bool        `json:"bool,omitempty"`
	Int   string      `json:"int,omitempty"` // decimal, arbitrary precision
	Str   string      `json:"str,omitempty"`
	Ident string      `json:"ident,omitempty"` // name
	Op    string      `json:"op,omitempty"`    // app
	Args  []*jsonExpr `json:"args,omitempty"`  // app

	Params   []string  `json:"params,omitempty"`   // lambda
	ParamIDs []int64   `json:"paramIds,omitempty"` // lambda
	Body     *jsonExpr `json:"body,omitempty"`     // lambda / let

	Def *jsonDef `json:"def,omitempty"` // let
}

// Decode parses raw as a jsonModule and lowers it into an ir.Module.
func Decode(raw []byte, moduleName string) (*ir.Module, error) {
	var jm jsonModule
	if err := json.Unmarshal(raw, &jm); err != nil {
		return nil, fmt.Errorf("irjson: %w", err)
	}
	name := jm.Name
	if name == "" {
		name = moduleName
	}
	defs := make([]ir.Definition, 0, len(jm.Defs))
	for _, jd := range jm.Defs {
		d, err := decodeDef(name, jd)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return ir.NewModule(0, name, defs), nil
}

func decodeDef(mod string, jd jsonDef) (ir.Definition, error) {
	switch jd.Kind {
	case "opdef":
		q, err := decodeQualifier(jd.Qualifier)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(mod, jd.Body)
		if err != nil {
			return nil, err
		}
		paramIDs := make([]ir.NodeID, len(jd.ParamIDs))
		for i, p := range jd.ParamIDs {
			paramIDs[i] = ir.NodeID(p)
		}
		return ir.NewOpDef(ir.NodeID(jd.ID), mod, q, jd.Name, jd.Params, paramIDs, nil, body), nil
	case "var":
		return ir.NewVarDecl(ir.NodeID(jd.ID), mod, jd.Name, nil), nil
	case "const":
		return ir.NewConstDecl(ir.NodeID(jd.ID), mod, jd.Name, nil), nil
	case "assume":
		pred, err := decodeExpr(mod, jd.Pred)
		if err != nil {
			return nil, err
		}
		return ir.NewAssume(ir.NodeID(jd.ID), mod, jd.Name, pred), nil
	default:
		return nil, fmt.Errorf("irjson: unknown definition kind %q", jd.Kind)
	}
}

func decodeQualifier(s string) (ir.Qualifier, error) {
	switch s {
	case "val":
		return ir.QualVal, nil
	case "def":
		return ir.QualDef, nil
	case "pureval", "pure val":
		return ir.QualPureVal, nil
	case "puredef", "pure def":
		return ir.QualPureDef, nil
	case "action":
		return ir.QualAction, nil
	case "run":
		return ir.QualRun, nil
	case "temporal":
		return ir.QualTemporal, nil
	default:
		return 0, fmt.Errorf("irjson: unknown qualifier %q", s)
	}
}

func decodeExpr(mod string, je *jsonExpr) (ir.Expression, error) {
	if je == nil {
		return nil, fmt.Errorf("irjson: missing expression")
	}
	id := ir.NodeID(je.ID)
	switch je.Kind {
	case "bool":
		return ir.NewBoolLiteral(id, mod, je.Bool), nil
	case "int":
		n, ok := new(big.Int).SetString(je.Int, 10)
		if !ok {
			return nil, fmt.Errorf("irjson: malformed integer literal %q", je.Int)
		}
		return ir.NewIntLiteral(id, mod, n), nil
	case "str":
		return ir.NewStrLiteral(id, mod, je.Str), nil
	case "name":
		return ir.NewName(id, mod, je.Ident), nil
	case "app":
		args := make([]ir.Expression, len(je.Args))
		for i, a := range je.Args {
			ae, err := decodeExpr(mod, a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return ir.NewApp(id, mod, je.Op, args...), nil
	case "lambda":
		body, err := decodeExpr(mod, je.Body)
		if err != nil {
			return nil, err
		}
		paramIDs := make([]ir.NodeID, len(je.ParamIDs))
		for i, p := range je.ParamIDs {
			paramIDs[i] = ir.NodeID(p)
		}
		return ir.NewLambda(id, mod, je.Params, paramIDs, body), nil
	case "let":
		if je.Def == nil {
			return nil, fmt.Errorf("irjson: let expression missing def")
		}
		d, err := decodeDef(mod, *je.Def)
		if err != nil {
			return nil, err
		}
		opDef, ok := d.(*ir.OpDef)
		if !ok {
			return nil, fmt.Errorf("irjson: let definition must be an opdef")
		}
		body, err := decodeExpr(mod, je.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewLet(id, mod, opDef, body), nil
	default:
		return nil, fmt.Errorf("irjson: unknown expression kind %q", je.Kind)
	}
}
