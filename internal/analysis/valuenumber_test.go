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
)

func TestValueNumberInfo_Local(t *testing.T) {
    cfg := il.NewCFG()
    a := cfg.Symbols.Add("a", il.SymAuto, 0)
    b := cfg.Symbols.Add("b", il.SymAuto, 0)
    e1 := cfg.Binary(il.OpAdd, cfg.Load(a), cfg.Load(b))
    e2 := cfg.Binary(il.OpAdd, cfg.Load(b), cfg.Load(a))
    e3 := cfg.Binary(il.OpSub, cfg.Load(a), cfg.Load(b))
    st := cfg.Store(a, cfg.Const(0))
    e4 := cfg.Binary(il.OpAdd, cfg.Load(a), cfg.Load(b))
    cfg.Root.Append(cfg.Treetop(e1), cfg.Treetop(e2), cfg.Treetop(e3), st, cfg.Treetop(e4), cfg.Return(nil))

    vn := BuildValueNumberInfo(cfg, nil, false)
    require.False(t, vn.HasGlobals())
    require.True(t, vn.Equivalent(e1, e2), "commutative operands")
    require.False(t, vn.Equivalent(e1, e3))
    require.False(t, vn.Equivalent(e1, e4), "killed by the store to a")
    require.True(t, vn.Equivalent(st, st.Kids[0]))
}

func TestValueNumberInfo_CallsKillGlobals(t *testing.T) {
    cfg := il.NewCFG()
    g := cfg.Symbols.Add("g", il.SymStatic, 0)
    x := cfg.Symbols.Add("x", il.SymAuto, 0)
    f := cfg.Symbols.Add("f", il.SymMethod, 0)
    g1, g2 := cfg.Load(g), cfg.Load(g)
    x1, x2 := cfg.Load(x), cfg.Load(x)
    cfg.Root.Append(cfg.Treetop(g1), cfg.Treetop(x1), cfg.Treetop(cfg.Call(f)), cfg.Treetop(g2), cfg.Treetop(x2))
    vn := BuildValueNumberInfo(cfg, nil, false)
    require.False(t, vn.Equivalent(g1, g2))
    require.True(t, vn.Equivalent(x1, x2))
}

func TestValueNumberInfo_Global(t *testing.T) {
    cfg, n := diamond()
    ud, ok := BuildUseDefInfo(cfg, UseDefOptions{})
    require.True(t, ok)

    /* a second load of x in the join block has the same reaching defs */
    join := cfg.Block(2)
    again := cfg.Load(n["usex"].Sym)
    join.Trees = append([]*il.Node{cfg.Treetop(again)}, join.Trees...)
    ud, _ = BuildUseDefInfo(cfg, UseDefOptions{})

    vn := BuildValueNumberInfo(cfg, ud, true)
    require.True(t, vn.HasGlobals())
    require.True(t, vn.Equivalent(again, n["usex"]))
    require.False(t, vn.Equivalent(n["usex"], n["usep"]))

    /* loads of statics are never numbered across blocks */
    v1, _ := vn.ValueNumber(n["useg"])
    require.NotZero(t, v1)
    require.Greater(t, vn.NumValues(), 0)
}
