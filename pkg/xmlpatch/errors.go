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

import "fmt"

// ❌ ParseError means a source file is not well-formed XML. Fatal for the
// whole run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ❌ XPathError means the expression is malformed or a namespace prefix
// cannot be resolved. Fatal, surfaced before any file is written.
type XPathError struct {
	Expr string
	Err  error
}

func (e *XPathError) Error() string {
	return fmt.Sprintf("compiling xpath %q: %v", e.Expr, e.Err)
}

func (e *XPathError) Unwrap() error {
	return e.Err
}
