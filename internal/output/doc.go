// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package output writes fetched project records as NDJSON (Newline Delimited
// JSON), one Project object per line, in the order they were collected.
//
// Records are written only after a fetch has completed, so a file produced
// by the CLI always holds a complete result set.
//
// Example usage:
//
//	w, err := output.NewFileWriter("projects.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.WriteAll(projects); err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Wrote %d projects\n", w.Count())
package output
