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

package il

import (
    `github.com/davecgh/go-spew/spew`
)

var _DumpConfig = spew.ConfigState {
    Indent                  : "    ",
    MaxDepth                : 8,
    SortKeys                : true,
    DisableCapacities       : true,
    DisablePointerAddresses : true,
    DisableMethods          : true,
}

// Dump renders graphs, blocks, nodes or anything reachable from them for
// debugging. Cycles through block edges are printed once.
func Dump(v interface{}) string {
    return _DumpConfig.Sdump(v)
}
