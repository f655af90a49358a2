// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmlpatch

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Spec describes one mutation applied uniformly to every document
type Spec struct {
	XPath     string // XPath expression selecting the nodes to mutate
	Value     string // Replacement value, ignored when Delete is set
	Delete    bool   // Remove matched nodes instead of setting their value
	Namespace string // Optional namespace URI bound into the XPath context
	Prefix    string // Prefix for the namespace binding, "" binds the default
}

// 🎯 Patcher applies a compiled mutation spec to XML documents
type Patcher struct {
	spec Spec
	expr *xpath.Expr
}

// 🏭 New compiles the spec's XPath up front so a malformed expression fails
// before any file is touched
func New(spec Spec) (*Patcher, error) {
	expr, err := compile(spec)
	if err != nil {
		return nil, &XPathError{Expr: spec.XPath, Err: err}
	}
	return &Patcher{spec: spec, expr: expr}, nil
}

// compile resolves the effective prefix into a local value, never mutating
// the spec itself
func compile(spec Spec) (*xpath.Expr, error) {
	if spec.Namespace == "" {
		return xpath.Compile(spec.XPath)
	}
	prefix := spec.Prefix // may be "", which binds unprefixed names
	return xpath.CompileWithNS(spec.XPath, map[string]string{prefix: spec.Namespace})
}

// 📄 Document is a mutated in-memory tree pending serialization
type Document struct {
	root *xmlquery.Node
}

// 📝 XML serializes the document
func (d *Document) XML() []byte {
	return []byte(d.root.OutputXML(false))
}

// 📂 PatchFile loads the document at path, applies the mutation and returns
// the mutated tree plus the number of nodes originally matched
func (p *Patcher) PatchFile(ctx context.Context, path string) (*Document, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Errorf("reading %s: %w", path, err)
	}

	doc, matches, err := p.Patch(data)
	if err != nil {
		var xperr *XPathError
		if errors.As(err, &xperr) {
			return nil, 0, err
		}
		return nil, 0, &ParseError{Path: path, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("file", path).Int("matches", matches).Msg("patched document")
	return doc, matches, nil
}

// 🔄 Patch parses the raw document and mutates every matched node. The match
// set is snapshotted in full before the first mutation, so removing a node
// cannot perturb which nodes were selected.
func (p *Patcher) Patch(data []byte) (*Document, int, error) {
	root, err := parse(data)
	if err != nil {
		return nil, 0, err
	}

	nodes := xmlquery.QuerySelectorAll(root, p.expr)
	for _, n := range nodes {
		p.apply(n)
	}

	return &Document{root: root}, len(nodes), nil
}

// apply mutates a single matched node by its runtime kind
func (p *Patcher) apply(n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.AttributeNode:
		if p.spec.Delete {
			n.Parent.RemoveAttr(n.Data)
		} else {
			n.Parent.SetAttr(n.Data, p.spec.Value)
		}
	case xmlquery.ElementNode:
		if p.spec.Delete {
			xmlquery.RemoveFromTree(n)
		} else {
			setText(n, p.spec.Value)
		}
	case xmlquery.TextNode, xmlquery.CharDataNode, xmlquery.CommentNode:
		if p.spec.Delete {
			xmlquery.RemoveFromTree(n)
		} else {
			n.Data = p.spec.Value
		}
	}
}

// setText replaces the element's entire content, nested elements included,
// with a single text node
func setText(n *xmlquery.Node, value string) {
	n.FirstChild = nil
	n.LastChild = nil
	xmlquery.AddChild(n, &xmlquery.Node{
		Type: xmlquery.TextNode,
		Data: value,
	})
}

// parse builds the tree, keeping the XML declaration in the output only when
// the source document carried one
func parse(data []byte) (*xmlquery.Node, error) {
	hadDeclaration := strings.HasPrefix(strings.TrimLeft(string(data), " \t\r\n"), "<?xml")

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("parsing xml: %w", err)
	}

	if !hadDeclaration && root.FirstChild != nil && root.FirstChild.Type == xmlquery.DeclarationNode {
		xmlquery.RemoveFromTree(root.FirstChild)
	}

	return root, nil
}
