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
)

// FailureKind classifies a fatal optimizer failure.
type FailureKind uint8

const (
	ExcessiveComplexity FailureKind = iota + 1
	CompilationInterrupted
	InsufficientlyAggressiveCompilation
	PassContractViolation
)

var _FailureNames = [...]string{
	ExcessiveComplexity:                 "ExcessiveComplexity",
	CompilationInterrupted:              "CompilationInterrupted",
	InsufficientlyAggressiveCompilation: "InsufficientlyAggressiveCompilation",
	PassContractViolation:               "PassContractViolation",
}

func (self FailureKind) String() string {
	if self != 0 && int(self) < len(_FailureNames) {
		return _FailureNames[self]
	} else {
		return fmt.Sprintf("FailureKind(%d)", self)
	}
}

// Failure aborts the optimization of one unit. NextHotness is only
// meaningful for InsufficientlyAggressiveCompilation.
type Failure struct {
	Kind        FailureKind
	Unit        string
	Pass        string
	Message     string
	NextHotness Hotness
}

func newFailure(kind FailureKind, unit string, pass string, format string, args ...interface{}) *Failure {
	return &Failure{
		Kind:    kind,
		Unit:    unit,
		Pass:    pass,
		Message: fmt.Sprintf(format, args...),
	}
}

func (self *Failure) Error() string {
	if self.Pass != "" {
		return fmt.Sprintf("%s(%s, at %s): %s", self.Kind, self.Unit, self.Pass, self.Message)
	} else {
		return fmt.Sprintf("%s(%s): %s", self.Kind, self.Unit, self.Message)
	}
}
