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

package opt

import (
	"fmt"
	"io"
	"strings"
)

const _MaxDumpLevel = 6

// DumpStrategy writes an indented listing of the strategy, with groups
// expanded up to a fixed nesting level.
func DumpStrategy(w io.Writer, suite *Suite, s Strategy) error {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "endOpts:%d numOpts:%d endGroup:%d numGroups:%d\n", EndOpts, numOpts, EndGroup, numGroups)

	/* every top-level entry starts at level 1 */
	for _, e := range s[:s.Len()] {
		dumpName(sb, suite, e.ID, 1)
	}

	/* flush all at once */
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpName(sb *strings.Builder, suite *Suite, id ID, level int) {
	if level > _MaxDumpLevel {
		return
	}

	/* groups wrap their entries, unknown IDs print as numbers */
	if g, ok := suite.Group(id); ok {
		fmt.Fprintf(sb, "%*s<%s>\n", level*6, " ", id)
		for _, e := range g.Entries[:g.Entries.Len()] {
			dumpName(sb, suite, e.ID, level+1)
		}
		fmt.Fprintf(sb, "%*s</%s>", level*6, " ", id)
	} else if id.IsPass() {
		fmt.Fprintf(sb, "%*s%s", level*6, " ", id)
	} else {
		fmt.Fprintf(sb, "%*s<%d>", level*6, " ", int(id))
	}
	sb.WriteByte('\n')
}
