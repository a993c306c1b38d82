package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:=;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Document is the root AST node for a rondo file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' @@* '}'"`
}

// Section is one of meta / resources / page.
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection captures document metadata (title, author, subject, creator, keywords).
type MetaSection struct {
	Entries []*Property `parser:"'meta' '{' ( @@ ';'? )* '}'"`
}

// ResourcesSection groups font and color declarations.
type ResourcesSection struct {
	Items []*Resource `parser:"'resources' '{' @@* '}'"`
}

type Resource struct {
	Font  *FontDecl  `parser:"  @@"`
	Color *ColorDecl `parser:"| @@"`
}

// FontDecl: font Body { src: "builtin:goregular" }
type FontDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'font' @Ident"`
	Props []*Property    `parser:"'{' ( @@ ';'? )* '}'"`
}

// ColorDecl: color Ink = #1F2937
type ColorDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident '='"`
	Value string         `parser:"@Color"`
}

// PageSection: page <width> <height> { frame ... }
type PageSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Width  string         `parser:"'page' @Number"`
	Height string         `parser:"@Number"`
	Frames []*FrameDecl   `parser:"'{' @@* '}'"`
}

// FrameDecl 描述页面上的一个文本框：
//
//	frame circle "seal" at 10mm 10mm size 60mm 60mm { font: Body  "text" }
type FrameDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Shape  string         `parser:"'frame' @( 'circle' | 'rect' )"`
	Name   *StringLiteral `parser:"@String?"`
	X      string         `parser:"'at' @Number"`
	Y      string         `parser:"@Number"`
	Width  string         `parser:"'size' @Number"`
	Height string         `parser:"@Number"`
	Items  []*FrameItem   `parser:"'{' @@* '}'"`
}

// FrameItem is either a property or a text literal.
type FrameItem struct {
	Property *Property     `parser:"  @@ ';'?"`
	Text     *StringLiteral `parser:"| @String"`
}

// Property uses colon syntax (key: value).
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a scalar property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Text 返回值的文本形式（字符串已去掉引号）。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Properties 返回文本框内的属性（按出现顺序）。
func (f *FrameDecl) Properties() []*Property {
	var props []*Property
	for _, item := range f.Items {
		if item.Property != nil {
			props = append(props, item.Property)
		}
	}
	return props
}

// Texts returns the frame's text literals in order.
func (f *FrameDecl) Texts() []string {
	var texts []string
	for _, item := range f.Items {
		if item.Text != nil {
			texts = append(texts, string(*item.Text))
		}
	}
	return texts
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
