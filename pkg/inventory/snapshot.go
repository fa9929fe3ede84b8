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

package inventory

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/header"
	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/k8s/client"
	"github.com/akaregi/imperatrix/pkg/serializer"
	"github.com/go-playground/validator/v10"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

const snapshotSourceName = "snapshot"

// PlayerInventory is one player's entry in a Snapshot.
type PlayerInventory struct {
	Name     string        `json:"name" yaml:"name" validate:"required"`
	Held     *item.Record  `json:"held,omitempty" yaml:"held,omitempty"`
	Contents []item.Record `json:"contents,omitempty" yaml:"contents,omitempty" validate:"dive"`

	// Score backs the "okopoint" placeholder; absent means zero.
	Score *int64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ServerStatus is server-wide state captured with a snapshot.
type ServerStatus struct {
	// TPS holds the 1, 5 and 15 minute averages, most recent first.
	TPS []float64 `json:"tps,omitempty" yaml:"tps,omitempty" validate:"max=3,dive,gte=0"`
}

// Snapshot is a point-in-time capture of player inventories.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	Server  *ServerStatus     `json:"server,omitempty" yaml:"server,omitempty"`
	Players []PlayerInventory `json:"players" yaml:"players" validate:"dive"`
}

// NewSnapshot returns an empty snapshot with an initialized header.
func NewSnapshot(version string) *Snapshot {
	s := &Snapshot{}
	s.Init(header.KindInventorySnapshot, header.APIVersionV1, version)
	return s
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks the header and every record, and rejects duplicate
// player names. Failures carry code INVALID_REQUEST.
func (s *Snapshot) Validate() error {
	if err := s.Check(header.KindInventorySnapshot, header.APIVersionV1); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid snapshot header", err)
	}

	if err := getValidator().Struct(s); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid snapshot", err,
			map[string]any{"fields": formatValidationError(err)})
	}

	seen := make(map[string]struct{}, len(s.Players))
	for _, p := range s.Players {
		key := playerKey(p.Name)
		if _, dup := seen[key]; dup {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest, "duplicate player in snapshot",
				map[string]any{"player": p.Name})
		}
		seen[key] = struct{}{}
	}
	return nil
}

type recordSet struct {
	Records []item.Record `json:"records" validate:"dive"`
}

// ValidateRecords checks records supplied outside a snapshot, such as a
// request body. Failures carry code INVALID_REQUEST.
func ValidateRecords(records []item.Record) error {
	if err := getValidator().Struct(recordSet{Records: records}); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid records", err,
			map[string]any{"fields": formatValidationError(err)})
	}
	return nil
}

func formatValidationError(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return map[string]string{"error": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch e.Tag() {
		case "required":
			out[field] = "is required"
		case "min", "gte":
			out[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "max":
			out[field] = fmt.Sprintf("must have at most %s entries", e.Param())
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

func playerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SnapshotSource serves records from an in-memory Snapshot. It is safe for
// concurrent use; Replace swaps the snapshot atomically.
type SnapshotSource struct {
	mu      sync.RWMutex
	players map[string]PlayerInventory
	server  *ServerStatus
}

// NewSnapshotSource validates snap and indexes it by player.
func NewSnapshotSource(snap *Snapshot) (*SnapshotSource, error) {
	s := &SnapshotSource{}
	if err := s.Replace(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace validates snap and makes it the served snapshot. On error the
// previous snapshot stays in place.
func (s *SnapshotSource) Replace(snap *Snapshot) error {
	if snap == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "snapshot is nil")
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	players := make(map[string]PlayerInventory, len(snap.Players))
	for _, p := range snap.Players {
		players[playerKey(p.Name)] = p
	}

	s.mu.Lock()
	s.players = players
	s.server = snap.Server
	s.mu.Unlock()
	return nil
}

// Players returns the names of all players in the snapshot, sorted.
func (s *SnapshotSource) Players() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func (s *SnapshotSource) lookup(player string) (PlayerInventory, error) {
	s.mu.RLock()
	p, ok := s.players[playerKey(player)]
	s.mu.RUnlock()
	if !ok {
		return PlayerInventory{}, errors.NewWithContext(errors.ErrCodeNotFound, "player not found",
			map[string]any{"player": player})
	}
	return p, nil
}

// Inventory implements Source.
func (s *SnapshotSource) Inventory(ctx context.Context, player string) ([]item.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "inventory lookup canceled", err)
	}
	p, err := s.lookup(player)
	observeLookup(snapshotSourceName, "inventory", err)
	if err != nil {
		return nil, err
	}
	return cloneRecords(p.Contents), nil
}

// HeldItem implements Source.
func (s *SnapshotSource) HeldItem(ctx context.Context, player string) (*item.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "held item lookup canceled", err)
	}
	p, err := s.lookup(player)
	observeLookup(snapshotSourceName, "held", err)
	if err != nil {
		return nil, err
	}
	if p.Held == nil {
		return nil, nil
	}
	held := *p.Held
	return &held, nil
}

// Score returns the player's recorded score, zero when none was captured.
func (s *SnapshotSource) Score(ctx context.Context, player string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeTimeout, "score lookup canceled", err)
	}
	p, err := s.lookup(player)
	observeLookup(snapshotSourceName, "score", err)
	if err != nil {
		return 0, err
	}
	if p.Score == nil {
		return 0, nil
	}
	return *p.Score, nil
}

// RecentTPS returns the captured TPS averages. Missing trailing averages
// repeat the last captured one.
func (s *SnapshotSource) RecentTPS(ctx context.Context) ([3]float64, error) {
	var out [3]float64
	if err := ctx.Err(); err != nil {
		return out, errors.Wrap(errors.ErrCodeTimeout, "tps lookup canceled", err)
	}

	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil || len(server.TPS) == 0 {
		return out, errors.New(errors.ErrCodeNotFound, "snapshot has no TPS samples")
	}
	for i := range out {
		out[i] = server.TPS[min(i, len(server.TPS)-1)]
	}
	return out, nil
}

// LoadOption configures LoadSnapshot.
type LoadOption func(*loadConfig)

type loadConfig struct {
	kubeconfig string
	client     client.Interface
}

// WithKubeconfig sets the kubeconfig used for cm:// URIs.
func WithKubeconfig(path string) LoadOption {
	return func(c *loadConfig) {
		c.kubeconfig = path
	}
}

// WithKubeClient sets the Kubernetes client used for cm:// URIs.
func WithKubeClient(c client.Interface) LoadOption {
	return func(cfg *loadConfig) {
		cfg.client = c
	}
}

// LoadSnapshot reads and validates a snapshot from a file path, an http(s)
// URL or a cm://namespace/name ConfigMap URI.
func LoadSnapshot(ctx context.Context, uri string, opts ...LoadOption) (*Snapshot, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "inventory location is empty")
	}

	loadCtx, cancel := context.WithTimeout(ctx, defaults.InventoryLoadTimeout)
	defer cancel()

	var (
		snap *Snapshot
		err  error
	)
	if cfg.client != nil && strings.HasPrefix(uri, serializer.ConfigMapURIScheme) {
		ns, name, perr := serializer.ParseConfigMapURI(uri)
		if perr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid inventory location", perr)
		}
		snap, err = serializer.FromConfigMap[Snapshot](loadCtx, cfg.client, ns, name)
	} else {
		snap, err = serializer.FromFileWithKubeconfig[Snapshot](loadCtx, uri, cfg.kubeconfig)
	}
	if err != nil {
		code := errors.ErrCodeUnavailable
		if stderrors.Is(err, fs.ErrNotExist) || apierrors.IsNotFound(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to load inventory snapshot", err,
			map[string]any{"uri": uri})
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("inventory snapshot loaded", "uri", uri, "players", len(snap.Players))
	return snap, nil
}

// OpenSnapshotSource loads the snapshot at uri and serves it.
func OpenSnapshotSource(ctx context.Context, uri string, opts ...LoadOption) (*SnapshotSource, error) {
	snap, err := LoadSnapshot(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}
	return NewSnapshotSource(snap)
}
