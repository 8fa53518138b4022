// Package lang implements a small expression-oriented scripting language: a
// table-driven tokenizer, a backtracking recursive-descent parser, and a
// tree-walking evaluator.
//
// # Grammar
//
// Informal EBNF:
//
//	Program      → Statement*
//	Statement    → FunctionDecl
//	             | Expression ';'
//	             | VariableDecl ';'
//	             | Return ';'
//	FunctionDecl → 'func' Ident '(' Idents ')' '{' Statement* '}'
//	VariableDecl → ('let' | 'const') Ident '=' Expression
//	Return       → 'ret' Expression
//	Expression   → Term [('+' | '-') Expression]
//	Term         → Factor [('*' | '/' | '%') Term]
//	Factor       → '(' Expression ')' | Ident '(' Expressions ')' | Ident | Numeric
//	Numeric      → ['+' | '-'] Number
//	Idents       → [Ident (',' Ident)*]
//	Expressions  → [Expression (',' Expression)*]
//
// Both binary levels recurse on the right, so every operator is
// right-associative: 8-3-2 is 8-(3-2) = 7 and 8/4/2 is 8/(4/2) = 8.
//
// Numbers are decimal (3.5), hexadecimal (0x10), or binary (0b11). The
// keywords if, else, for, and while are reserved but no rule accepts them.
//
// # Rules
//
// Each rule is a [Rule] over a [Cursor]. A rule that fails leaves the
// cursor where it found it, so [Alternate] can try the next alternative
// from the same position. The rules are fields of a [Grammar] built by
// [NewGrammar]; replacing a field changes every rule that refers to it.
//
// # Evaluation
//
// An [Evaluator] runs a [Program] against a [Scope]. All arithmetic is
// float64. Calling a function creates a scope whose parent is the scope of
// the caller, so free names in a function body resolve at the call site:
//
//	func f() { ret y; }
//	func g() { let y = 1; ret f(); }
//	func h() { let y = 2; ret f(); }
//	ret g() * 10 + h();   // 12
//
// A const binding cannot be redeclared in the scope that holds it, but may
// be shadowed in a called function's scope. Function declarations bind
// const.
//
// Hosts add functions with [NewNative] or install the standard set with
// [DeclareBuiltins]:
//
//	root := lang.NewScope(nil)
//	_ = lang.DeclareBuiltins(root, os.Stdout)
//
//	prog, err := lang.ParseString(ctx, "ret sqrt(16) + 1;")
//	if err != nil {
//		return err
//	}
//
//	result, err := lang.NewEvaluator().Run(ctx, prog, root) // Number(5)
package lang
