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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"direct unauthorized error", ErrUnauthorized, ErrUnauthorized, true},
		{"wrapped unauthorized error", fmt.Errorf("failed to authenticate: %w", ErrUnauthorized), ErrUnauthorized, true},
		{"different error type", ErrRepoNotFound, ErrUnauthorized, false},
		{"wrapped transport error", fmt.Errorf("connection failed: %w", ErrTransport), ErrTransport, true},
		{"nil error", nil, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed BadRequest", New(BadRequest, "missing owner", nil), BadRequest},
		{"wrapped not found sentinel", fmt.Errorf("lookup failed: %w", ErrRepoNotFound), NotFound},
		{"wrapped unauthorized sentinel", fmt.Errorf("auth failed: %w", ErrUnauthorized), Unauthorized},
		{"wrapped forbidden sentinel", fmt.Errorf("scope check failed: %w", ErrForbidden), Forbidden},
		{"wrapped rate limit sentinel", fmt.Errorf("quota: %w", ErrRateLimit), RateLimited},
		{"unclassified falls back to transport", errors.New("weird upstream shape"), Transport},
		{"nil error has empty kind", nil, Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{BadRequest, 400},
		{NotFound, 404},
		{Unauthorized, 401},
		{Forbidden, 403},
		{RateLimited, 429},
		{Transport, 502},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := HTTPStatus(tt.kind); got != tt.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestErrorUnwrapAndMessage(t *testing.T) {
	cause := errors.New("503 from upstream")
	err := New(Transport, "github api transport failure: 503 from upstream", cause)

	if err.Error() != "github api transport failure: 503 from upstream" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected Unwrap to expose cause")
	}

	empty := New(NotFound, "", nil)
	if empty.Error() != string(NotFound) {
		t.Errorf("Error() with empty detail = %q, want %q", empty.Error(), NotFound)
	}
}
