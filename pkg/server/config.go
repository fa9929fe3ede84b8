// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"golang.org/x/time/rate"
)

// Environment variables read by NewConfig.
const (
	EnvPort            = "PORT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvRateLimit       = "RATE_LIMIT"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
)

// Config describes one placeholder server instance.
type Config struct {
	Name    string
	Version string

	// Handlers are mounted on the mux by pattern, behind the middleware chain.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	// RateLimit is shared by every client; placeholder refreshes are not
	// attributed to a caller.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the defaults from pkg/defaults with any valid
// environment overrides applied. Invalid values are ignored.
func NewConfig() *Config {
	cfg := &Config{
		Name:              "imperatrixd",
		Version:           "undefined",
		Port:              defaults.ServerPort,
		RateLimit:         defaults.ServerRateLimit,
		RateLimitBurst:    defaults.ServerRateLimitBurst,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if port, ok := envPositiveInt(EnvPort); ok && port < 65536 {
		cfg.Port = port
	}
	// should track the pod's terminationGracePeriodSeconds
	if seconds, ok := envPositiveInt(EnvShutdownTimeout); ok {
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if limit, ok := envPositiveInt(EnvRateLimit); ok {
		cfg.RateLimit = rate.Limit(limit)
	}
	if burst, ok := envPositiveInt(EnvRateLimitBurst); ok {
		cfg.RateLimitBurst = burst
	}

	return cfg
}

func envPositiveInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
