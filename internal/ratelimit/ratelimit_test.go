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

package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_DisabledWhenNonPositive(t *testing.T) {
	l := New(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() with disabled limiter = %v, want nil", err)
	}
}

func TestLimiter_ThrottlesBurst(t *testing.T) {
	l := New(1000, 1)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait() = %v", err)
	}

	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("second Wait() = %v", err)
	}
	if elapsed := time.Since(start); elapsed <= 0 {
		t.Fatalf("expected second Wait() to block for a nonzero duration, took %v", elapsed)
	}
}

func TestLimiter_RespectsContextCancellation(t *testing.T) {
	l := New(1, 1)
	_ = l.Wait(context.Background()) // consume the single burst token

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected Wait() to return an error once context deadline is exceeded")
	}
}
