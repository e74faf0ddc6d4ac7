// Package parser turns catalog expression source into the restricted AST
// defined in pkg/expr/ast.
//
// The grammar, loosest binding first:
//
//	expr        := or ( '?' expr ':' expr )?
//	or          := and ( '||' and )*
//	and         := cmp ( '&&' cmp )*
//	cmp         := add ( ('=='|'!='|'<'|'>'|'<='|'>=') add )*
//	add         := mul ( ('+'|'-') mul )*
//	mul         := unary ( ('*'|'/') unary )*
//	unary       := ('-'|'!') unary | postfix
//	postfix     := primary ( '.' IDENT | '(' args ')' )*
//	primary     := NUMBER | STRING | IDENT | null | true | false
//	             | '(' expr ')' | '[' ... ']' | '{' ... '}'
//
// The strict JS equality operators === and !== are accepted and collapse to
// their loose forms; numeric literals always parse to exact decimals.
// Repeated comparison operators fold into one chained compare node.
//
// Anything outside the grammar is rejected with the same error type the
// evaluator uses for allow-list violations.
package parser
