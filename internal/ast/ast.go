// Package ast defines the Cxy abstract syntax tree: a tagged sum of
// node kinds sharing a common BaseNode, following spec.md §3.1.
//
// All nodes produced for one compilation live in a single arena.Arena;
// node-to-node references (ParentScope, resolved declaration pointers,
// Next sibling links) are plain Go pointers whose lifetime equals the
// arena's. Cycles such as ParentScope are safe because nothing is freed
// individually (spec.md §5).
package ast

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/token"
)

// Tag discriminates the ~100 AST node variants named by spec.md §3.1.
// This is the idiomatic-Go rendering of the source's tagged union: one
// Go type per tag, dispatched by a type switch instead of a vtable.
type Tag int

const (
	TagProgram Tag = iota
	TagFile

	// Declarations
	TagModuleDecl
	TagImportDecl
	TagFuncDecl
	TagParam
	TagGenericParam
	TagVarDecl
	TagMultiVarDecl
	TagField
	TagStructDecl
	TagClassDecl
	TagEnumDecl
	TagEnumOption
	TagTraitDecl
	TagInterfaceDecl
	TagTypeAliasDecl
	TagMacroDecl
	TagExceptionDecl // pre-shake sugar; shaker rewrites to TagClassDecl
	TagTestDecl      // pre-shake sugar; shaker rewrites to TagFuncDecl
	TagAttr

	// Type AST (Flag IsTypeAst set)
	TagPrimitiveTypeAst
	TagPathTypeAst
	TagPointerTypeAst
	TagReferenceTypeAst
	TagArrayTypeAst
	TagSliceTypeAst
	TagTupleTypeAst
	TagUnionTypeAst
	TagOptionalTypeAst
	TagFuncTypeAst
	TagResultTypeAst
	TagThisTypeAst

	// Expressions
	TagIdentifier
	TagPath
	TagPathElem
	TagIntLiteral
	TagFloatLiteral
	TagStringLiteral
	TagCharLiteral
	TagBoolLiteral
	TagNullLiteral
	TagStringInterpExpr
	TagTupleExpr
	TagArrayExpr
	TagStructExpr
	TagStructFieldInit
	TagBinaryExpr
	TagUnaryExpr
	TagCallExpr
	TagIndexExpr
	TagFieldExpr
	TagCastExpr
	TagIsExpr
	TagTernaryExpr
	TagClosureExpr
	TagRangeExpr
	TagNewExpr
	TagDeleteExpr
	TagAwaitExpr
	TagLaunchExpr
	TagRaiseExpr
	TagCatchExpr
	TagThisExpr
	TagSuperExpr
	TagThisTypeExpr
	TagSubstituteExpr
	TagAsmExpr
	TagMacroCallExpr

	// Statements
	TagBlock
	TagExprStmt
	TagVarDeclStmt
	TagIfStmt
	TagWhileStmt
	TagForStmt
	TagBreakStmt
	TagContinueStmt
	TagReturnStmt
	TagDeferStmt
	TagMatchStmt
	TagMatchCase

	// Patterns
	TagWildcardPattern
	TagBindPattern
	TagTypePattern
	TagLiteralPattern
	TagTuplePattern

	// Comptime / preprocessor
	TagHashIf
	TagHashFor
	TagHashWhile
	TagHashConst

	// Sentinel placeholders (spec.md §6 post-conditions)
	TagNoop
	TagError
)

var tagNames = [...]string{
	"Program", "File",
	"ModuleDecl", "ImportDecl", "FuncDecl", "Param", "GenericParam",
	"VarDecl", "MultiVarDecl", "Field", "StructDecl", "ClassDecl",
	"EnumDecl", "EnumOption", "TraitDecl", "InterfaceDecl",
	"TypeAliasDecl", "MacroDecl", "ExceptionDecl", "TestDecl", "Attr",
	"PrimitiveTypeAst", "PathTypeAst", "PointerTypeAst",
	"ReferenceTypeAst", "ArrayTypeAst", "SliceTypeAst", "TupleTypeAst",
	"UnionTypeAst", "OptionalTypeAst", "FuncTypeAst", "ResultTypeAst",
	"ThisTypeAst",
	"Identifier", "Path", "PathElem", "IntLiteral", "FloatLiteral",
	"StringLiteral", "CharLiteral", "BoolLiteral", "NullLiteral",
	"StringInterpExpr", "TupleExpr", "ArrayExpr", "StructExpr",
	"StructFieldInit", "BinaryExpr", "UnaryExpr", "CallExpr", "IndexExpr",
	"FieldExpr", "CastExpr", "IsExpr", "TernaryExpr", "ClosureExpr",
	"RangeExpr", "NewExpr", "DeleteExpr", "AwaitExpr", "LaunchExpr",
	"RaiseExpr", "CatchExpr", "ThisExpr", "SuperExpr", "ThisTypeExpr",
	"SubstituteExpr", "AsmExpr", "MacroCallExpr",
	"Block", "ExprStmt", "VarDeclStmt", "IfStmt", "WhileStmt", "ForStmt",
	"BreakStmt", "ContinueStmt", "ReturnStmt", "DeferStmt", "MatchStmt",
	"MatchCase",
	"WildcardPattern", "BindPattern", "TypePattern", "LiteralPattern", "TuplePattern",
	"HashIf", "HashFor", "HashWhile", "HashConst",
	"Noop", "Error",
}

func (t Tag) String() string {
	if int(t) >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Node is implemented by every AST node. Base() exposes the shared
// fields so generic passes (binder, shaker, checker) can walk any node
// without a type switch just to reach Span/Flags/Type.
type Node interface {
	Base() *BaseNode
	String() string
}

// Decl is a Node that introduces a name into an enclosing scope.
type Decl interface {
	Node
	declNode()
}

// Expr is a Node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a Node appearing in a block's statement list.
type Stmt interface {
	Node
	stmtNode()
}

// TypeAst is a Node appearing in type-annotation position (Flags has
// IsTypeAst set); the checker resolves it to a *types.Type.
type TypeAst interface {
	Node
	typeAstNode()
}

// BaseNode holds the fields every Cxy AST node carries per spec.md
// §3.1: tag, source span, flag bitset, resolved type (filled by the
// checker), enclosing-scope back-reference (filled by the binder), an
// attribute side-chain, and an intrusive sibling link.
type BaseNode struct {
	Tag   Tag
	Span  token.Span
	Flags Flags

	// Type is populated by internal/check; stored as `any` to avoid an
	// import cycle between ast and types (types.Literal carries an AST
	// node, ast nodes carry a *types.Type). Callers type-assert to
	// *types.Type.
	Type any

	// ParentScope is populated by internal/binder: the nearest
	// enclosing declaration or block. Safe under the arena's shared
	// lifetime even though it closes a cycle back toward children.
	ParentScope Node

	// Resolved is populated by internal/binder for Path/Identifier/
	// Break/Continue/Return/Defer/Super/This/Closure nodes: a direct
	// pointer to the declaration (or loop/function) the node resolves
	// to.
	Resolved Node

	Attrs []*Attr
	Next  Node
}

func (b *BaseNode) Base() *BaseNode { return b }

func newBase(tag Tag, span token.Span) BaseNode {
	return BaseNode{Tag: tag, Span: span, Flags: NewFlags()}
}

// Attr is a single `@name(args)` attribute attached to a declaration.
type Attr struct {
	BaseNode
	Name string
	Args []Expr
}

func NewAttr(span token.Span, name string, args []Expr) *Attr {
	b := newBase(TagAttr, span)
	return &Attr{BaseNode: b, Name: name, Args: args}
}
func (a *Attr) String() string {
	if len(a.Args) == 0 {
		return "@" + a.Name
	}
	parts := make([]string, len(a.Args))
	for i, e := range a.Args {
		parts[i] = e.String()
	}
	return fmt.Sprintf("@%s(%s)", a.Name, strings.Join(parts, ", "))
}

// Program is the root of a full compilation: the main module's File
// plus every transitively imported File, keyed by the driver's module
// cache (internal/driver).
type Program struct {
	BaseNode
	Main    *File
	Modules []*File
}

func NewProgram(main *File) *Program {
	return &Program{BaseNode: newBase(TagProgram, main.Span), Main: main}
}
func (p *Program) String() string { return p.Main.String() }

// File is one parsed source file.
type File struct {
	BaseNode
	Path    string
	Module  *ModuleDecl
	Imports []*ImportDecl
	Decls   []Decl
}

func NewFile(span token.Span, path string) *File {
	return &File{BaseNode: newBase(TagFile, span), Path: path}
}
func (f *File) String() string {
	var sb strings.Builder
	if f.Module != nil {
		sb.WriteString(f.Module.String())
		sb.WriteByte('\n')
	}
	for _, imp := range f.Imports {
		sb.WriteString(imp.String())
		sb.WriteByte('\n')
	}
	for _, d := range f.Decls {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ModuleDecl names the module a file belongs to.
type ModuleDecl struct {
	BaseNode
	Path string
}

func NewModuleDecl(span token.Span, path string) *ModuleDecl {
	return &ModuleDecl{BaseNode: newBase(TagModuleDecl, span), Path: path}
}
func (m *ModuleDecl) String() string { return "module " + m.Path }
func (m *ModuleDecl) declNode()      {}

// ImportDecl pulls another module's exports into scope, optionally
// through the plugin loader when Plugin is true (spec.md §4.10).
type ImportDecl struct {
	BaseNode
	Path    string
	Alias   string
	Symbols []string // empty = whole module
	Plugin  bool
}

func NewImportDecl(span token.Span, path, alias string) *ImportDecl {
	return &ImportDecl{BaseNode: newBase(TagImportDecl, span), Path: path, Alias: alias}
}
func (i *ImportDecl) String() string {
	if i.Alias != "" {
		return fmt.Sprintf("import %s as %s", i.Path, i.Alias)
	}
	return "import " + i.Path
}
func (i *ImportDecl) declNode() {}
</content>
