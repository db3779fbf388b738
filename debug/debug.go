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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/optsched/internal/driver"
)

// A Stats records statistics about the optimizer driver.
type Stats struct {
	Units  UnitStats
	Passes int
	Cost   int
}

// A UnitStats records how compilations ended.
type UnitStats struct {
	Compiled int
	Retried  int
	Failed   int
}

// GetStats returns statistics of the optimizer driver.
func GetStats() Stats {
	return Stats{
		Units: UnitStats{
			Compiled: int(atomic.LoadUint64(&driver.CompileCount)),
			Retried:  int(atomic.LoadUint64(&driver.RetryCount)),
			Failed:   int(atomic.LoadUint64(&driver.FailureCount)),
		},
		Passes: int(atomic.LoadUint64(&driver.PassCount)),
		Cost:   int(atomic.LoadUint64(&driver.CostSum)),
	}
}
