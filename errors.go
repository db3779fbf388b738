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

package optsched

import (
    `errors`
    `fmt`

    `github.com/cloudwego/optsched/internal/opt`
)

// FailureError occures when the optimizer gives up on a unit.
type FailureError struct {
    Unit   string
    Kind   string
    Pass   string
    Reason string
}

func (self FailureError) Error() string {
    if self.Pass != "" {
        return fmt.Sprintf("%s(%s, at %s): %s", self.Kind, self.Unit, self.Pass, self.Reason)
    } else {
        return fmt.Sprintf("%s(%s): %s", self.Kind, self.Unit, self.Reason)
    }
}

// DescriptionError occures when a unit description cannot be read or built.
type DescriptionError struct {
    Path string
    Err  error
}

func (self DescriptionError) Error() string {
    return fmt.Sprintf("invalid unit description %s: %v", self.Path, self.Err)
}

func (self DescriptionError) Unwrap() error {
    return self.Err
}

// HotnessError occures when a hotness name is not one of the known levels.
type HotnessError struct {
    Name string
}

func (self HotnessError) Error() string {
    return fmt.Sprintf("unknown hotness %q", self.Name)
}

func convertError(err error) error {
    var f *opt.Failure
    if !errors.As(err, &f) {
        return err
    }
    return FailureError {
        Unit   : f.Unit,
        Kind   : f.Kind.String(),
        Pass   : f.Pass,
        Reason : f.Message,
    }
}
