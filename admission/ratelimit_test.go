// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package admission

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liberte-project/liberte/internal/logger"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	l := NewRateLimiter(10.0, 5.0)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Check("127.0.0.1"))
	}
	assert.False(t, l.Check("127.0.0.1"))
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	l := NewRateLimiter(10.0, 2.0)

	assert.True(t, l.Check("10.0.0.1"))
	assert.True(t, l.Check("10.0.0.1"))
	assert.False(t, l.Check("10.0.0.1"))

	assert.True(t, l.Check("10.0.0.2"))
}

func TestPurgeStale(t *testing.T) {
	l := NewRateLimiter(10.0, 5.0)
	assert.True(t, l.Check("192.168.1.1"))

	l.PurgeStale(0)

	l.mu.Lock()
	empty := len(l.buckets) == 0
	l.mu.Unlock()
	assert.True(t, empty)
}

func TestExtractClientIPPrefersRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.5:1234"
	r.Header.Set("X-Forwarded-For", "198.51.100.9")
	assert.Equal(t, "203.0.113.5", ExtractClientIP(r))
}

func TestExtractClientIPFallsBackToForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = ""
	r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	assert.Equal(t, "198.51.100.9", ExtractClientIP(r))
}

func TestExtractClientIPFallsBackToRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = ""
	r.Header.Set("X-Real-IP", "198.51.100.10")
	assert.Equal(t, "198.51.100.10", ExtractClientIP(r))
}

func TestMiddlewareBlocksExhaustedBucket(t *testing.T) {
	l := NewRateLimiter(0.0, 1.0)
	handlerCalls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusOK)
	})

	mw := l.Middleware(logger.NewDefaultLogger(), next)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:1"

	w1 := httptest.NewRecorder()
	mw.ServeHTTP(w1, r)
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	mw.ServeHTTP(w2, r)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.Equal(t, 1, handlerCalls)
}

func TestRunPurgesOnInterval(t *testing.T) {
	l := NewRateLimiter(10.0, 5.0)
	l.Check("127.0.0.1")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		l.Run(5*time.Millisecond, 0, stop)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	close(stop)
	<-done

	l.mu.Lock()
	empty := len(l.buckets) == 0
	l.mu.Unlock()
	assert.True(t, empty)
}
