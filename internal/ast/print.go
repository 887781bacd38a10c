package ast

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Fprint writes an indented tree dump of the program, used by the
// print-ast debug toggle.
func Fprint(w io.Writer, prog *Program) {
	fmt.Fprintln(w, ">=== Ast ===<")
	for _, stmt := range prog.Body {
		fprintStmt(w, stmt, 1)
	}
	fmt.Fprintln(w, ">===========<")
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func fprintExpr(w io.Writer, expr Expr, depth int) {
	indent(w, depth)

	switch e := expr.(type) {
	case *NumLiteral:
		if e.Value == math.Trunc(e.Value) {
			fmt.Fprintf(w, "NumLiteral{%d}\n", int64(e.Value))
		} else {
			fmt.Fprintf(w, "NumLiteral{%g}\n", e.Value)
		}
	case *BoolLiteral:
		fmt.Fprintf(w, "BoolLiteral{%t}\n", e.Value)
	case *StrLiteral:
		fmt.Fprintf(w, "StrLiteral{%s}\n", e.Value)
	case *NoneLiteral:
		fmt.Fprintln(w, "NoneLiteral{}")
	case *Identifier:
		fmt.Fprintf(w, "Identifier{%s}\n", e.Name)
	case *AssignmentExpr:
		fmt.Fprintln(w, "AssignmentExpr{}")
		fprintExpr(w, e.Target, depth+1)
		fprintExpr(w, e.Value, depth+1)
	case *BinaryExpr:
		fmt.Fprintf(w, "BinaryExpr{%s}\n", e.Op)
		fprintExpr(w, e.Left, depth+1)
		fprintExpr(w, e.Right, depth+1)
	case *UnaryExpr:
		fmt.Fprintf(w, "UnaryExpr{%s}\n", e.Op)
		fprintExpr(w, e.Operand, depth+1)
	case *CallExpr:
		fmt.Fprintln(w, "CallExpr{}")
		fprintExpr(w, e.Target, depth+1)
		for _, arg := range e.Args {
			fprintExpr(w, arg, depth+1)
		}
	case *PropertyExpr:
		fmt.Fprintf(w, "PropertyExpr{%s}\n", e.Prop.Name)
		fprintExpr(w, e.Expr, depth+1)
	case *Empty:
		fmt.Fprintln(w, "Empty{}")
	default:
		fmt.Fprintln(w, "UnknownExpr{}")
	}
}

func fprintStmt(w io.Writer, stmt Stmt, depth int) {
	indent(w, depth)

	switch s := stmt.(type) {
	case *BreakStmt:
		fmt.Fprintln(w, "BreakStmt{}")
	case *ContinueStmt:
		fmt.Fprintln(w, "ContinueStmt{}")
	case *ExitStmt:
		fmt.Fprintf(w, "ExitStmt{%d}\n", int(s.Code.Value))
	case *ExprStmt:
		fmt.Fprintln(w, "ExprStmt{}")
		fprintExpr(w, s.Expr, depth+1)
	case *PrintStmt:
		fmt.Fprintln(w, "PrintStmt{}")
		for _, expr := range s.Exprs {
			fprintExpr(w, expr, depth+1)
		}
	case *IfStmt:
		fmt.Fprintln(w, "IfStmt{}")
		indent(w, depth+1)
		fmt.Fprintln(w, "Condition:")
		fprintExpr(w, s.Condition, depth+2)
		indent(w, depth+1)
		fmt.Fprintln(w, "Body:")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+2)
		}
		if len(s.OrElse) > 0 {
			indent(w, depth+1)
			fmt.Fprintln(w, "OrElse:")
			for _, stmt := range s.OrElse {
				fprintStmt(w, stmt, depth+2)
			}
		}
	case *LoopBlock:
		fmt.Fprintln(w, "LoopBlock{}")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+1)
		}
	case *WhileLoop:
		fmt.Fprintln(w, "WhileLoop{}")
		indent(w, depth+1)
		fmt.Fprintln(w, "Condition:")
		fprintExpr(w, s.Condition, depth+2)
		indent(w, depth+1)
		fmt.Fprintln(w, "Body:")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+2)
		}
	case *ForLoop:
		fmt.Fprintln(w, "ForLoop{}")
		indent(w, depth+1)
		fmt.Fprintf(w, "Target: %s\n", s.Target.Name)
		indent(w, depth+1)
		fmt.Fprintln(w, "Iterator:")
		fprintExpr(w, s.Iterator, depth+2)
		indent(w, depth+1)
		fmt.Fprintln(w, "Body:")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+2)
		}
	case *ReturnStmt:
		fmt.Fprintln(w, "ReturnStmt{}")
		fprintExpr(w, s.Value, depth+1)
	case *BlockStmt:
		fmt.Fprintln(w, "BlockStmt{}")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+1)
		}
	case *FuncDeclaration:
		fmt.Fprintf(w, "FuncDeclaration{%s}\n", s.Name.Name)
		indent(w, depth+1)
		fmt.Fprintln(w, "Arguments:")
		for _, arg := range s.Args {
			indent(w, depth+2)
			fmt.Fprintf(w, "Identifier{%s}\n", arg.Name)
		}
		indent(w, depth+1)
		fmt.Fprintln(w, "Body:")
		for _, stmt := range s.Body {
			fprintStmt(w, stmt, depth+2)
		}
	case *VarDeclaration:
		fmt.Fprintf(w, "VarDeclaration{%s}\n", s.Target.Name)
		fprintExpr(w, s.Expr, depth+1)
	case *TypeDeclaration:
		fmt.Fprintf(w, "TypeDeclaration{%s}\n", s.Name.Name)
		for _, parent := range s.Parents {
			indent(w, depth+1)
			fmt.Fprintf(w, "Parent{%s}\n", parent.Name)
		}
		for _, method := range s.Methods {
			fprintStmt(w, method, depth+1)
		}
	case *EmptyStmt:
		fmt.Fprintln(w, "Empty{}")
	default:
		fmt.Fprintln(w, "UnknownStmt{}")
	}
}
