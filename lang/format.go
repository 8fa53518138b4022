package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source form. With indent > 0 each
// statement is on its own line and function bodies are indented; otherwise
// the program is written on one line. Parsing the output yields the same
// tree.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var buf strings.Builder

	writeStatements(&buf, p.Statements, indent, 0)

	_, err := fmt.Fprintln(w, buf.String())

	return err
}

// FormatExpression returns e in canonical source form.
func FormatExpression(e Expression) string {
	var buf strings.Builder

	writeExpression(&buf, e)

	return buf.String()
}

// FormatJSON writes the tree of the program as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p.Tree(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p.Tree())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree of the program as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.Tree(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented dump of the tree, one node per line.
func (p *Program) Print(w io.Writer) error {
	var buf strings.Builder

	printNode(&buf, p.Tree(), 0)

	_, err := fmt.Fprint(w, buf.String())

	return err
}

func writeStatements(buf *strings.Builder, stmts []Statement, indent, depth int) {
	for i, stmt := range stmts {
		if i > 0 {
			if indent > 0 {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}

		buf.WriteString(strings.Repeat(" ", depth*indent))
		writeStatement(buf, stmt, indent, depth)
	}
}

func writeStatement(buf *strings.Builder, stmt Statement, indent, depth int) {
	switch s := stmt.(type) {
	case *FunctionDecl:
		buf.WriteString("func ")
		buf.WriteString(s.Name.Name)
		buf.WriteByte('(')

		for i, p := range s.Params {
			if i > 0 {
				buf.WriteString(", ")
			}

			buf.WriteString(p.Name)
		}

		buf.WriteString(") {")

		if len(s.Body) > 0 {
			if indent > 0 {
				buf.WriteByte('\n')
				writeStatements(buf, s.Body, indent, depth+1)
				buf.WriteByte('\n')
				buf.WriteString(strings.Repeat(" ", depth*indent))
			} else {
				buf.WriteByte(' ')
				writeStatements(buf, s.Body, indent, depth+1)
				buf.WriteByte(' ')
			}
		}

		buf.WriteByte('}')

	case *VariableDecl:
		buf.WriteString(s.Modifier.String())
		buf.WriteByte(' ')
		buf.WriteString(s.Equation.Name.Name)
		buf.WriteString(" = ")
		writeExpression(buf, s.Equation.Value)
		buf.WriteByte(';')

	case *ExpressionStatement:
		writeExpression(buf, s.Expr)
		buf.WriteByte(';')

	case *Return:
		buf.WriteString("ret ")
		writeExpression(buf, s.Value)
		buf.WriteByte(';')
	}
}

func writeExpression(buf *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *TermExpr:
		writeTerm(buf, e.Term)

	case *BinaryExpr:
		writeExpression(buf, e.Left)
		buf.WriteString(" " + e.Op + " ")
		writeExpression(buf, e.Right)
	}
}

func writeTerm(buf *strings.Builder, t Term) {
	switch t := t.(type) {
	case *FactorTerm:
		writeFactor(buf, t.Factor)

	case *BinaryTerm:
		writeTerm(buf, t.Left)
		buf.WriteString(" " + t.Op + " ")
		writeTerm(buf, t.Right)
	}
}

func writeFactor(buf *strings.Builder, f Factor) {
	switch f := f.(type) {
	case *Group:
		buf.WriteByte('(')
		writeExpression(buf, f.Inner)
		buf.WriteByte(')')

	case *Variable:
		buf.WriteString(f.Name.Name)

	case *Call:
		buf.WriteString(f.Name.Name)
		buf.WriteByte('(')

		for i, arg := range f.Args {
			if i > 0 {
				buf.WriteString(", ")
			}

			writeExpression(buf, arg)
		}

		buf.WriteByte(')')

	case *Numeric:
		buf.WriteString(f.String())
	}
}

// Tree returns the program as nested maps and slices, suitable for
// generic encoders. Every node is a map with a "type" key.
func (p *Program) Tree() map[string]any {
	stmts := make([]any, len(p.Statements))
	for i, s := range p.Statements {
		stmts[i] = statementTree(s)
	}

	return map[string]any{
		"type":       "Program",
		"statements": stmts,
	}
}

func statementTree(stmt Statement) map[string]any {
	switch s := stmt.(type) {
	case *FunctionDecl:
		params := make([]any, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Name
		}

		body := make([]any, len(s.Body))
		for i, b := range s.Body {
			body[i] = statementTree(b)
		}

		return map[string]any{
			"type":   "FunctionDecl",
			"name":   s.Name.Name,
			"params": params,
			"body":   body,
		}

	case *VariableDecl:
		return map[string]any{
			"type":     "VariableDecl",
			"modifier": s.Modifier.String(),
			"name":     s.Equation.Name.Name,
			"value":    expressionTree(s.Equation.Value),
		}

	case *ExpressionStatement:
		return map[string]any{
			"type":  "ExpressionStatement",
			"value": expressionTree(s.Expr),
		}

	case *Return:
		return map[string]any{
			"type":  "Return",
			"value": expressionTree(s.Value),
		}

	default:
		return map[string]any{"type": resultTypeName(stmt)}
	}
}

func expressionTree(e Expression) map[string]any {
	switch e := e.(type) {
	case *TermExpr:
		return termTree(e.Term)

	case *BinaryExpr:
		return map[string]any{
			"type":  "BinaryExpr",
			"op":    e.Op,
			"left":  expressionTree(e.Left),
			"right": expressionTree(e.Right),
		}

	default:
		return map[string]any{"type": resultTypeName(e)}
	}
}

// termTree elides the single-child wrappers, which carry no information.
func termTree(t Term) map[string]any {
	switch t := t.(type) {
	case *FactorTerm:
		return factorTree(t.Factor)

	case *BinaryTerm:
		return map[string]any{
			"type":  "BinaryTerm",
			"op":    t.Op,
			"left":  termTree(t.Left),
			"right": termTree(t.Right),
		}

	default:
		return map[string]any{"type": resultTypeName(t)}
	}
}

func factorTree(f Factor) map[string]any {
	switch f := f.(type) {
	case *Group:
		return map[string]any{
			"type":  "Group",
			"inner": expressionTree(f.Inner),
		}

	case *Variable:
		return map[string]any{
			"type": "Variable",
			"name": f.Name.Name,
		}

	case *Call:
		args := make([]any, len(f.Args))
		for i, a := range f.Args {
			args[i] = expressionTree(a)
		}

		return map[string]any{
			"type": "Call",
			"name": f.Name.Name,
			"args": args,
		}

	case *Numeric:
		return map[string]any{
			"type": "Numeric",
			"text": f.String(),
			"base": f.Base.String(),
		}

	default:
		return map[string]any{"type": resultTypeName(f)}
	}
}

// treeOrder lists the keys printed on the header line of a node, before
// the nested children.
var treeOrder = []string{"modifier", "name", "op", "text", "base", "params"}

// printNode writes a tree produced by [Program.Tree].
func printNode(buf *strings.Builder, node map[string]any, depth int) {
	pad := strings.Repeat("  ", depth)

	buf.WriteString(pad)
	buf.WriteString(fmt.Sprint(node["type"]))

	for _, key := range treeOrder {
		v, ok := node[key]
		if !ok {
			continue
		}

		if list, ok := v.([]any); ok {
			parts := make([]string, len(list))
			for i, p := range list {
				parts[i] = fmt.Sprint(p)
			}

			v = "(" + strings.Join(parts, ", ") + ")"
		}

		fmt.Fprintf(buf, " %s=%v", key, v)
	}

	buf.WriteByte('\n')

	for _, key := range []string{"statements", "body", "value", "left", "right", "inner", "args"} {
		switch child := node[key].(type) {
		case map[string]any:
			printNode(buf, child, depth+1)
		case []any:
			for _, c := range child {
				if m, ok := c.(map[string]any); ok {
					printNode(buf, m, depth+1)
				}
			}
		}
	}
}
