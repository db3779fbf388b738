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
    `github.com/cloudwego/optsched/internal/il`
)

// Request describes what the next pass needs.
type Request struct {
    Structure                         bool
    UseDefs                           bool
    GlobalUseDefs                     bool
    PreferGlobalUseDefs               bool
    ValueNumbers                      bool
    GlobalValueNumbers                bool
    StronglyPreferGlobalValueNumbers  bool
    NoAliasSets                       bool
    NoLoadsAsDefs                     bool
    KeepTrivialDefs                   bool
}

// Effects describes what a pass did to the graph.
type Effects struct {
    NodesAdded       bool
    SymbolsChanged   bool
    TopologyChanged  bool
    MaintainsUseDefs bool
}

// Artifacts owns every analysis of one compilation.
type Artifacts struct {
    Structure         Slot[*Structure]
    UseDefs           Slot[*UseDefInfo]
    ValueNumbers      Slot[*ValueNumberInfo]
    Aliases           Slot[*AliasSets]
    SymbolEquivalence Slot[SymbolEquivalence]
    UseDefLimit       int

    CantBuildGlobalUseDefs      bool
    CantBuildLocalUseDefs       bool
    CantBuildGlobalValueNumbers bool
    CantBuildLocalValueNumbers  bool
}

// Prepare makes every artifact required by the request valid, and returns
// the artifacts it built in build order.
func (self *Artifacts) Prepare(cfg *il.CFG, req Request) []Kind {
    var built []Kind
    globalUD := req.GlobalUseDefs || req.GlobalValueNumbers
    needUD := globalUD || req.UseDefs || req.ValueNumbers

    /* alias sets are needed unless explicitly declined */
    if !req.NoAliasSets && !self.Aliases.Valid() {
        self.Aliases.Rebuild(func() (*AliasSets, bool) { return BuildAliasSets(cfg.Symbols), true })
        built = append(built, KindAliases)
    }

    /* use-defs and value numbers are built on top of the structure */
    if needUD {
        req.Structure = true
    }

    /* build the structure if needed */
    if req.Structure && !self.Structure.Valid() {
        self.Structure.Rebuild(func() (*Structure, bool) { return BuildStructure(cfg), true })
        built = append(built, KindStructure)
    }

    /* drop use-defs that are weaker than what the pass wants */
    if ud, ok := self.UseDefs.Peek(); ok && needUD {
        switch {
            case req.StronglyPreferGlobalValueNumbers && !ud.HasGlobals() && !self.CantBuildGlobalUseDefs : self.UseDefs.Invalidate()
            case req.NoLoadsAsDefs && ud.HasLoadsAsDefs()                                                 : self.UseDefs.Invalidate()
            case !req.NoLoadsAsDefs && !ud.HasLoadsAsDefs()                                               : self.UseDefs.Invalidate()
        }
    }

    /* use-def information */
    if globalUD {
        if ud, ok := self.UseDefs.Peek(); !self.CantBuildGlobalUseDefs && (!ok || !ud.HasGlobals()) {
            if !self.buildUseDefs(cfg, req, true) {
                self.CantBuildGlobalUseDefs = true
            }
            built = append(built, KindUseDefs)
        }
    } else if needUD {
        if !self.CantBuildLocalUseDefs && !self.UseDefs.Valid() {
            if !self.buildUseDefs(cfg, req, false) {
                self.CantBuildLocalUseDefs = true
            } else if ud := self.UseDefs.Get(); req.StronglyPreferGlobalValueNumbers && !ud.HasGlobals() {
                self.CantBuildGlobalUseDefs = true
            }
            built = append(built, KindUseDefs)
        }
    }

    /* value numbers */
    if req.GlobalValueNumbers {
        if vn, ok := self.ValueNumbers.Peek(); !self.CantBuildGlobalValueNumbers && (!ok || !vn.HasGlobals()) {
            self.buildValueNumbers(cfg, true)
            built = append(built, KindValueNumbers)
        }
    } else if req.ValueNumbers {
        if !self.CantBuildLocalValueNumbers && !self.ValueNumbers.Valid() {
            self.buildValueNumbers(cfg, false)
            built = append(built, KindValueNumbers)
        }
    }
    return built
}

func (self *Artifacts) buildUseDefs(cfg *il.CFG, req Request, globals bool) bool {
    return self.UseDefs.Rebuild(func() (*UseDefInfo, bool) {
        return BuildUseDefInfo(cfg, UseDefOptions {
            Globals         : globals,
            PreferGlobals   : req.PreferGlobalUseDefs || req.StronglyPreferGlobalValueNumbers,
            LoadsAsDefs     : !req.NoLoadsAsDefs,
            KeepTrivialDefs : req.KeepTrivialDefs,
            Limit           : self.UseDefLimit,
        })
    })
}

func (self *Artifacts) buildValueNumbers(cfg *il.CFG, globals bool) {
    ud, _ := self.UseDefs.Peek()
    self.ValueNumbers.Rebuild(func() (*ValueNumberInfo, bool) {
        return BuildValueNumberInfo(cfg, ud, globals), true
    })
}

// Apply invalidates whatever the effects of a pass made stale, returning
// the artifacts it dropped.
func (self *Artifacts) Apply(e Effects) []Kind {
    var dropped []Kind
    drop := func(k Kind, ok bool) {
        if ok {
            dropped = append(dropped, k)
        }
    }

    /* new nodes have no value numbers and no use-def links */
    if e.NodesAdded {
        drop(KindValueNumbers, self.ValueNumbers.Invalidate())
        if !e.MaintainsUseDefs {
            drop(KindUseDefs, self.UseDefs.Invalidate())
        }
    }

    /* new or removed symbols are not partitioned */
    if e.SymbolsChanged {
        drop(KindSymbolEquivalence, self.SymbolEquivalence.Invalidate())
        drop(KindAliases, self.Aliases.Invalidate())
    }

    /* the structure only changes when a pass says so */
    if e.TopologyChanged {
        drop(KindStructure, self.Structure.Invalidate())
    }
    return dropped
}

// SymbolEquivalenceTable returns the cached table, building it if needed.
func (self *Artifacts) SymbolEquivalenceTable(cfg *il.CFG) SymbolEquivalence {
    if !self.SymbolEquivalence.Valid() {
        self.SymbolEquivalence.Rebuild(func() (SymbolEquivalence, bool) {
            return BuildSymbolEquivalence(cfg.Symbols), true
        })
    }
    return self.SymbolEquivalence.Get()
}
