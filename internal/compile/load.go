/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package compile

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudwego/optsched/internal/il"
	"github.com/cloudwego/optsched/internal/opt"
)

// Description is the on-disk form of a unit.
type Description struct {
	Name    string              `yaml:"name"`
	Hotness string              `yaml:"hotness"`
	Flags   []string            `yaml:"flags,omitempty"`
	Inlined string              `yaml:"inlined,omitempty"`
	Inner   bool                `yaml:"inner,omitempty"`
	Symbols []SymbolDescription `yaml:"symbols"`
	Blocks  []BlockDescription  `yaml:"blocks"`
}

type SymbolDescription struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Offset  int      `yaml:"offset,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// BlockDescription is one block. Blocks are numbered in order, and the first
// one is the entry. Trees are written the way il.Node prints them.
type BlockDescription struct {
	Trees   []string `yaml:"trees"`
	Succ    []int    `yaml:"succ,omitempty"`
	Handler bool     `yaml:"handler,omitempty"`
}

// Load reads the description at path and builds the unit.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read unit %s", path)
	}
	unit, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid unit %s", path)
	}
	return unit, nil
}

// Parse decodes a description, rejecting unknown fields, and builds the unit.
func Parse(data []byte) (*Unit, error) {
	var desc Description
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	/* decode the document */
	if err := dec.Decode(&desc); err != nil {
		return nil, errors.Wrap(err, "malformed description")
	}
	return desc.Build()
}

func (self *Description) Build() (*Unit, error) {
	var err error
	var hot opt.Hotness

	/* unit attributes */
	if self.Name == "" {
		return nil, errors.New("name is required")
	}
	if hot, err = parseHotness(self.Hotness, opt.Warm); err != nil {
		return nil, err
	}

	/* the graph itself */
	cfg, err := self.buildCFG()
	if err != nil {
		return nil, err
	}

	/* build-mode flags */
	unit := NewUnit(self.Name, cfg, hot)
	flags, err := parseFlags(self.Flags)
	if err != nil {
		return nil, err
	}

	/* handler blocks imply the exception handler trait */
	for _, bb := range cfg.Blocks() {
		if bb.Handler {
			flags |= opt.FlagExceptionHandlers
		}
	}

	/* inlining attributes */
	unit.SetFlags(flags)
	unit.SetInner(self.Inner)
	if unit.inlined, err = parseHotness(self.Inlined, opt.NoOpt); err != nil {
		return nil, err
	}
	return unit, nil
}

func (self *Description) buildCFG() (*il.CFG, error) {
	cfg := il.NewCFG()
	syms := make(map[string]*il.Symbol, len(self.Symbols))

	/* an empty method still has its entry block */
	if len(self.Blocks) == 0 {
		return nil, errors.New("at least one block is required")
	}

	/* declare the symbols */
	for _, v := range self.Symbols {
		kind, ok := il.ParseSymbolKind(v.Kind)
		if !ok {
			return nil, errors.Errorf("symbol %s: unknown kind %q", v.Name, v.Kind)
		}
		sym := cfg.Symbols.Add(v.Name, kind, v.Offset)
		if _, dup := syms[sym.String()]; dup {
			return nil, errors.Errorf("duplicated symbol %s", sym)
		}
		syms[sym.String()] = sym
	}

	/* record the aliases once every symbol exists */
	for i, v := range self.Symbols {
		for _, name := range v.Aliases {
			if sym, ok := syms[name]; !ok {
				return nil, errors.Errorf("symbol %s: unknown alias %s", v.Name, name)
			} else {
				cfg.Symbols.Alias(cfg.Symbols.At(i), sym)
			}
		}
	}

	/* allocate the blocks, the root is already there */
	bbs := []*il.Block{cfg.Root}
	for len(bbs) < len(self.Blocks) {
		bbs = append(bbs, cfg.NewBlock())
	}

	/* fill in the trees and edges */
	for i, v := range self.Blocks {
		bb := bbs[i]
		bb.Handler = v.Handler

		/* parse the trees */
		for _, src := range v.Trees {
			tt, err := ParseTree(cfg, syms, src)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", bb)
			}
			bb.Append(tt)
		}

		/* link the successors */
		for _, id := range v.Succ {
			if id < 0 || id >= len(bbs) {
				return nil, errors.Errorf("%s: no such successor bb_%d", bb, id)
			}
			cfg.Link(bb, bbs[id])
		}
	}
	return cfg, nil
}

func parseHotness(name string, def opt.Hotness) (opt.Hotness, error) {
	if name == "" {
		return def, nil
	} else if h, ok := opt.ParseHotness(name); ok {
		return h, nil
	} else {
		return 0, errors.Errorf("unknown hotness %q", name)
	}
}

func parseFlags(names []string) (opt.Flags, error) {
	ret := opt.Flags(0)
	for _, v := range names {
		if f, ok := opt.ParseFlag(v); ok {
			ret |= f
		} else {
			return 0, errors.Errorf("unknown flag %q", v)
		}
	}
	return ret, nil
}

// ParseTree parses a tree in the form printed by il.Node. Symbols are looked
// up by their printed name.
func ParseTree(cfg *il.CFG, syms map[string]*il.Symbol, src string) (*il.Node, error) {
	p := &_TreeParser{cfg: cfg, syms: syms, toks: tokenize(src)}
	ret, err := p.node()

	/* the whole source must be one tree */
	if err != nil {
		return nil, errors.Wrapf(err, "tree %q", src)
	}
	if p.pos != len(p.toks) {
		return nil, errors.Errorf("tree %q: trailing tokens", src)
	}
	return ret, nil
}

type _TreeParser struct {
	cfg  *il.CFG
	syms map[string]*il.Symbol
	toks []string
	pos  int
}

func tokenize(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	return strings.Fields(src)
}

func (self *_TreeParser) next() string {
	if self.pos == len(self.toks) {
		return ""
	}
	self.pos++
	return self.toks[self.pos-1]
}

func (self *_TreeParser) peek() string {
	if self.pos == len(self.toks) {
		return ""
	} else {
		return self.toks[self.pos]
	}
}

func (self *_TreeParser) node() (*il.Node, error) {
	var sym *il.Symbol
	var val int64

	/* opening paren and the opcode */
	if tok := self.next(); tok != "(" {
		return nil, errors.Errorf("expected '(', got %q", tok)
	}
	name := self.next()
	op, ok := il.ParseOpcode(name)
	if !ok {
		return nil, errors.Errorf("unknown opcode %q", name)
	}

	/* the operand of the node itself */
	if tok := self.peek(); tok != "(" && tok != ")" && tok != "" {
		self.pos++
		if op == il.OpConst {
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, errors.Errorf("bad constant %q", tok)
			}
			val = v
		} else if sym = self.syms[tok]; sym == nil {
			return nil, errors.Errorf("undeclared symbol %s", tok)
		}
	}

	/* the children */
	var kids []*il.Node
	for self.peek() == "(" {
		kid, err := self.node()
		if err != nil {
			return nil, err
		}
		kids = append(kids, kid)
	}

	/* closing paren */
	if tok := self.next(); tok != ")" {
		return nil, errors.Errorf("expected ')', got %q", tok)
	}
	if err := checkShape(op, sym, kids); err != nil {
		return nil, err
	}
	return self.cfg.NewNode(op, sym, val, kids...), nil
}

func checkShape(op il.Opcode, sym *il.Symbol, kids []*il.Node) error {
	want := -1
	needSym := false

	/* fixed shapes, calls and allocations take any number of children */
	switch {
	case op == il.OpConst || op == il.OpGoto || op == il.OpNop:
		want = 0
	case op == il.OpLoad:
		want, needSym = 0, true
	case op == il.OpStore:
		want, needSym = 1, true
	case op.IsBinary():
		want = 2
	case op == il.OpTreetop || op == il.OpIf:
		want = 1
	case op == il.OpReturn && len(kids) > 1:
		return errors.New("return takes at most one value")
	}

	/* check the operands */
	if needSym && sym == nil {
		return errors.Errorf("%s requires a symbol", op)
	}
	if want >= 0 && len(kids) != want {
		return errors.Errorf("%s takes %d children, got %d", op, want, len(kids))
	}
	return nil
}
