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

package analysis

import (
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/optsched/internal/il`
    `github.com/cloudwego/optsched/internal/il/iltest`
)

// diamond: x = 1; if p { x = 2 }; return x, plus a static g stored once
func diamond() (*il.CFG, map[string]*il.Node) {
    cfg := il.NewCFG()
    x := cfg.Symbols.Add("x", il.SymAuto, 0)
    p := cfg.Symbols.Add("p", il.SymParam, 0)
    g := cfg.Symbols.Add("g", il.SymStatic, 0)
    then := cfg.NewBlock()
    join := cfg.NewBlock()
    n := map[string]*il.Node {
        "d1"   : cfg.Store(x, cfg.Const(1)),
        "d2"   : cfg.Store(x, cfg.Const(2)),
        "dg"   : cfg.Store(g, cfg.Const(3)),
        "usep" : cfg.Load(p),
        "usex" : cfg.Load(x),
        "useg" : cfg.Load(g),
    }
    cfg.Root.Append(n["d1"], n["dg"], cfg.If(n["usep"]))
    cfg.Link(cfg.Root, join)
    cfg.Link(cfg.Root, then)
    then.Append(n["d2"], cfg.Goto())
    cfg.Link(then, join)
    join.Append(cfg.Treetop(n["useg"]), cfg.Return(n["usex"]))
    return cfg, n
}

func TestUseDefInfo_Locals(t *testing.T) {
    cfg, n := diamond()
    ud, ok := BuildUseDefInfo(cfg, UseDefOptions{})
    require.True(t, ok)
    require.False(t, ud.HasGlobals())
    defs, entry := ud.DefsOf(n["usex"])
    require.ElementsMatch(t, []*il.Node{n["d1"], n["d2"]}, defs)
    require.False(t, entry)
    defs, entry = ud.DefsOf(n["usep"])
    require.Empty(t, defs)
    require.True(t, entry)
    require.False(t, ud.IsUse(n["useg"]))
    require.False(t, ud.IsDef(n["dg"]))
    require.Equal(t, []*il.Node{n["usex"]}, ud.UsesOf(n["d2"]))
    require.Equal(t, 2, ud.NumDefs())
}

func TestUseDefInfo_Globals(t *testing.T) {
    cfg, n := diamond()
    ud, ok := BuildUseDefInfo(cfg, UseDefOptions{Globals: true})
    require.True(t, ok)
    require.True(t, ud.HasGlobals())
    defs, entry := ud.DefsOf(n["useg"])
    require.Equal(t, []*il.Node{n["dg"]}, defs)
    require.False(t, entry)
    require.Equal(t, 3, ud.NumDefs())
}

func TestUseDefInfo_Limit(t *testing.T) {
    cfg, _ := diamond()
    _, ok := BuildUseDefInfo(cfg, UseDefOptions{Globals: true, Limit: 1})
    require.False(t, ok)

    /* globals are only preferred, so it falls back to locals */
    ud, ok := BuildUseDefInfo(cfg, UseDefOptions{PreferGlobals: true, Limit: 5})
    require.True(t, ok)
    require.False(t, ud.HasGlobals())
}

func TestUseDefInfo_LoopCarried(t *testing.T) {
    cfg := iltest.Loops(1)
    ud, ok := BuildUseDefInfo(cfg, UseDefOptions{})
    require.True(t, ok)

    /* the header compare sees both the initial and the loop carried value */
    cmp := cfg.Block(1).Trees[0].Kids[0]
    defs, entry := ud.DefsOf(cmp.Kids[0])
    require.Len(t, defs, 2)
    require.False(t, entry)
}

func TestUseDefInfo_TrivialDefs(t *testing.T) {
    cfg := il.NewCFG()
    x := cfg.Symbols.Add("x", il.SymAuto, 0)
    d := cfg.Store(x, cfg.Const(1))
    tr := cfg.Store(x, cfg.Load(x))
    use := cfg.Load(x)
    cfg.Root.Append(d, tr, cfg.Return(use))

    /* x = x is transparent unless it must be kept */
    ud, _ := BuildUseDefInfo(cfg, UseDefOptions{})
    defs, _ := ud.DefsOf(use)
    require.Equal(t, []*il.Node{d}, defs)
    ud, _ = BuildUseDefInfo(cfg, UseDefOptions{KeepTrivialDefs: true})
    defs, _ = ud.DefsOf(use)
    require.Equal(t, []*il.Node{tr}, defs)
}

func TestUseDefInfo_LoadsAsDefs(t *testing.T) {
    cfg, n := diamond()
    ud, _ := BuildUseDefInfo(cfg, UseDefOptions{LoadsAsDefs: true})
    require.True(t, ud.HasLoadsAsDefs())
    require.True(t, ud.IsDef(n["usex"]))
}
