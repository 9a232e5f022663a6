package compiler

import (
	"fmt"
	"math/big"

	"github.com/thiremani/segarr/ast"
)

// foldInt evaluates an integer constant expression exactly. Counts, array
// type lengths and integer elements all go through here.
func (c *Compiler) foldInt(expr ast.Expression) (*big.Int, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return new(big.Int).SetUint64(e.Value), nil
	case *ast.CharLiteral:
		return big.NewInt(int64(e.Value)), nil
	case *ast.FloatLiteral:
		return nil, fmt.Errorf("float constant %s used as integer", e)
	case *ast.PrefixExpression:
		right, err := c.foldInt(e.Right)
		if err != nil {
			return nil, err
		}
		return right.Neg(right), nil
	case *ast.InfixExpression:
		return c.foldIntInfix(e)
	case *ast.CallExpression:
		n, err := c.foldCall(e)
		if err != nil {
			return nil, err
		}
		return big.NewInt(int64(n)), nil
	case *ast.Identifier:
		return nil, fmt.Errorf("%s is not an integer constant", e.Value)
	}
	return nil, fmt.Errorf("%s is not an integer constant", expr)
}

func (c *Compiler) foldIntInfix(e *ast.InfixExpression) (*big.Int, error) {
	left, err := c.foldInt(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.foldInt(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "+":
		return left.Add(left, right), nil
	case "-":
		return left.Sub(left, right), nil
	case "*":
		return left.Mul(left, right), nil
	case "/", "%":
		if right.Sign() == 0 {
			return nil, fmt.Errorf("division by zero in %s", e)
		}
		if e.Operator == "/" {
			return left.Quo(left, right), nil
		}
		return left.Rem(left, right), nil
	}
	return nil, fmt.Errorf("unknown operator %s", e.Operator)
}

// foldCount evaluates a count or target. Negative values are passed
// through so the evaluator reports them against the segment.
func (c *Compiler) foldCount(expr ast.Expression) (int, error) {
	v, err := c.foldInt(expr)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() || int64(int(v.Int64())) != v.Int64() {
		return 0, fmt.Errorf("count %s overflows int", v)
	}
	return int(v.Int64()), nil
}

// foldFloat evaluates a float constant expression. Integer and character
// operands convert to float.
func (c *Compiler) foldFloat(expr ast.Expression) (float64, error) {
	switch e := expr.(type) {
	case *ast.FloatLiteral:
		return e.Value, nil
	case *ast.IntegerLiteral:
		return float64(e.Value), nil
	case *ast.CharLiteral:
		return float64(e.Value), nil
	case *ast.PrefixExpression:
		right, err := c.foldFloat(e.Right)
		return -right, err
	case *ast.CallExpression:
		n, err := c.foldCall(e)
		return float64(n), err
	case *ast.InfixExpression:
		left, err := c.foldFloat(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := c.foldFloat(e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Operator {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			if right == 0 {
				return 0, fmt.Errorf("division by zero in %s", e)
			}
			return left / right, nil
		}
		return 0, fmt.Errorf("operator %s not defined on floats", e.Operator)
	case *ast.Identifier:
		return 0, fmt.Errorf("%s is not a float constant", e.Value)
	}
	return 0, fmt.Errorf("%s is not a float constant", expr)
}

// foldCall handles the len builtin, the only callable.
func (c *Compiler) foldCall(e *ast.CallExpression) (int, error) {
	if e.Function.Value != "len" {
		return 0, fmt.Errorf("unknown function %s", e.Function.Value)
	}
	if len(e.Arguments) != 1 {
		return 0, fmt.Errorf("len takes exactly 1 argument, got %d", len(e.Arguments))
	}

	switch arg := e.Arguments[0].(type) {
	case *ast.Identifier:
		res, err := c.lookup(arg)
		if err != nil {
			return 0, err
		}
		return res.Type.Len, nil
	case *ast.ListLiteral:
		return len(arg.Elems), nil
	case *ast.StringLiteral:
		return len(arg.Value), nil
	case *ast.NestedArray:
		_, vals, err := c.evalNested(arg)
		if err != nil {
			return 0, err
		}
		return len(vals), nil
	}
	return 0, fmt.Errorf("invalid argument %s for len", e.Arguments[0])
}
