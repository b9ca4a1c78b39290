// Package parse implements a small isl-like textual syntax for basic
// sets and maps, intended for tests and for convenient construction of
// coalesce.BasicMap values by hand, not as a general set/map parser.
//
//	{ [i0, i1] : i0 >= 0 and i0 <= 5 and i1 >= 0 and i1 <= 5 }
//	{ [i0] -> [o0] : o0 = i0 + 1 }
//
// Only a single conjunction (no union of disjuncts, no existentials) is
// supported; the coalescing core this package feeds takes a flat list of
// basic maps to begin with; a parser for full unions can always be
// layered on top later.
package parse

import (
	"fmt"
	"math/big"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"coalesce"
)

var (
	bigOne      = big.NewInt(1)
	bigMinusOne = big.NewInt(-1)
)

func bigFromInt(v int64) *big.Int {
	return big.NewInt(v)
}

var setLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Operator", Pattern: `->|<=|>=|&&|[-+=<>*]`},
	{Name: "Punct", Pattern: `[{}\[\](),:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// literal is the grammar's top-level production: a tuple of dimension
// names, an optional arrow to a second tuple (making it a map rather
// than a set), and an optional conjunction of constraints.
type literal struct {
	In          []string      `"{" "[" @Ident ("," @Ident)* "]"`
	Out         []string      `("->" "[" @Ident ("," @Ident)* "]")?`
	Constraints []*constraint `(":" @@ ("and" @@ | "&&" @@)*)? "}"`
}

type constraint struct {
	Left  *expr  `@@`
	Op    string `@("<=" | ">=" | "=" | "<" | ">")`
	Right *expr  `@@`
}

type expr struct {
	Terms []*term `@@ @@*`
}

type term struct {
	Sign  string  `@("+" | "-")?`
	Coeff *int64  `(@Int "*"?)?`
	Var   *string `@Ident?`
}

var parser = participle.MustBuild[literal](
	participle.Lexer(setLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse reads either a basic set ("{ [dims] : constraints }") or a basic
// map ("{ [dims] -> [dims] : constraints }") and returns the
// corresponding coalesce.BasicMap. A set becomes a basic map with no
// input dimensions and its tuple occupying the output dimensions.
func Parse(src string) (*coalesce.BasicMap, error) {
	lit, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return build(lit)
}

func build(lit *literal) (*coalesce.BasicMap, error) {
	var outNames, inNames []string
	if len(lit.Out) > 0 {
		outNames, inNames = lit.In, lit.Out
	} else {
		outNames = lit.In
	}

	space := coalesce.Space{NOut: len(outNames), NIn: len(inNames)}
	total := space.TotalDim()
	index := make(map[string]int, total)
	for k, name := range outNames {
		index[name] = 1 + k
	}
	for k, name := range inNames {
		index[name] = 1 + len(outNames) + k
	}

	b := coalesce.NewBasicMap(space, 0, len(lit.Constraints), len(lit.Constraints))
	for _, c := range lit.Constraints {
		row, isEq, err := buildConstraint(c, index, total)
		if err != nil {
			return nil, err
		}
		if isEq {
			b.Eq = append(b.Eq, row)
		} else {
			b.Ineq = append(b.Ineq, row)
		}
	}
	return b, nil
}

func buildConstraint(c *constraint, index map[string]int, total int) (coalesce.Vector, bool, error) {
	left, err := buildExpr(c.Left, index, total)
	if err != nil {
		return nil, false, err
	}
	right, err := buildExpr(c.Right, index, total)
	if err != nil {
		return nil, false, err
	}

	diff := coalesce.Combine(bigOne, left, bigMinusOne, right)
	switch c.Op {
	case "=":
		return diff, true, nil
	case ">=":
		return diff, false, nil
	case "<=":
		return diff.Neg(), false, nil
	case ">":
		diff[0].Sub(diff[0], bigOne)
		return diff, false, nil
	case "<":
		neg := diff.Neg()
		neg[0].Sub(neg[0], bigOne)
		return neg, false, nil
	default:
		return nil, false, fmt.Errorf("parse: unknown operator %q", c.Op)
	}
}

func buildExpr(e *expr, index map[string]int, total int) (coalesce.Vector, error) {
	row := coalesce.NewVector(1 + total)
	for _, t := range e.Terms {
		coeff := int64(1)
		if t.Coeff != nil {
			coeff = *t.Coeff
		}
		if t.Sign == "-" {
			coeff = -coeff
		}
		if t.Var == nil {
			row[0].Add(row[0], bigFromInt(coeff))
			continue
		}
		col, ok := index[*t.Var]
		if !ok {
			return nil, fmt.Errorf("parse: undeclared dimension %q", *t.Var)
		}
		row[col].Add(row[col], bigFromInt(coeff))
	}
	return row, nil
}
