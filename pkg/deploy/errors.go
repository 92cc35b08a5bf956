// Copyright 2025 Leadline AI
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

package deploy

import (
	"fmt"
	"strings"
)

// ValidationError reports a draft that is not ready to deploy. No HTTP
// request has been made when this error is returned.
type ValidationError struct {
	// Missing lists the required fields that could not be derived.
	Missing []string

	// Reason is set instead of Missing when a structural invariant
	// failed.
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("draft is not ready to deploy: missing %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("draft is not ready to deploy: %s", e.Reason)
}

// DeployError is a non-2xx backend response, carrying the backend's
// detail message.
type DeployError struct {
	StatusCode int
	Detail     string
}

func (e *DeployError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("deployment rejected with HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("deployment rejected: %s", e.Detail)
}
