package soak

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixedcap/config"
	"fixedcap/control"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	control.Reset()
	t.Cleanup(control.Reset)
	cfg := config.Default()
	cfg.Ops = 20_000
	return cfg
}

func requireClean(t *testing.T, res Result) {
	t.Helper()
	require.True(t, res.OK(), "%s: %d mismatches, first: %s", res.Container, res.Mismatches, res.FirstMismatch)
	require.False(t, res.Interrupted)
}

func TestRunnersClean(t *testing.T) {
	cfg := smallConfig(t)
	runners := map[string]func(*config.Config, int64) Result{
		Ring:  RunRing,
		List:  RunList,
		Map:   RunMap,
		Pool:  RunPool,
		Queue: RunQueue,
	}
	for name, fn := range runners {
		t.Run(name, func(t *testing.T) {
			for seed := int64(1); seed <= 3; seed++ {
				res := fn(cfg, seed)
				requireClean(t, res)
				assert.Equal(t, name, res.Container)
				assert.Equal(t, cfg.Ops, res.Ops)
				assert.Equal(t, seed, res.Seed)
			}
		})
	}
}

func TestMapHashVariants(t *testing.T) {
	for _, tc := range []struct {
		hash    string
		buckets int
	}{
		{config.HashIdentity, 0},
		{config.HashIdentity, 3},
		{config.HashMix, 0},
		{config.HashMix, 1},
		{config.HashKeyed, 0},
		{config.HashKeyed, 7},
	} {
		t.Run(tc.hash, func(t *testing.T) {
			cfg := smallConfig(t)
			cfg.Map.Hash = tc.hash
			cfg.Map.Buckets = tc.buckets
			requireClean(t, RunMap(cfg, 42))
		})
	}
}

func TestMapFullTable(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Map.TableSize = 8
	cfg.Map.KeySpace = 40
	cfg.Map.Buckets = 2
	requireClean(t, RunMap(cfg, 9))
}

func TestTinyCapacities(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Ring.Capacity = 1
	cfg.Ring.MaxChunk = 2
	cfg.List.Nodes = 1
	cfg.Pool.Size = 1
	cfg.Queue.Capacity = 1
	rep := Run(cfg)
	require.Len(t, rep.Results, 5)
	for _, res := range rep.Results {
		requireClean(t, res)
	}
}

func TestRunSkipsDisabled(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Ring.Enabled = false
	cfg.Pool.Enabled = false
	rep := Run(cfg)
	var names []string
	for _, res := range rep.Results {
		names = append(names, res.Container)
	}
	assert.Equal(t, []string{List, Map, Queue}, names)
	assert.False(t, rep.Failed())
	assert.Equal(t, cfg.Seed, rep.Seed)
}

func TestLockMemoryDoesNotChangeOutcome(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Ops = 2_000
	cfg.LockMemory = true
	for _, res := range Run(cfg).Results {
		requireClean(t, res)
	}
}

func TestShutdownInterrupts(t *testing.T) {
	cfg := smallConfig(t)
	control.Shutdown()

	res := RunRing(cfg, 1)
	assert.True(t, res.Interrupted)
	assert.Equal(t, 0, res.Ops)
	assert.True(t, res.OK())

	rep := Run(cfg)
	assert.Empty(t, rep.Results, "Run stops before starting a container")
}

func TestDeadlineInterrupts(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Ops = 1 << 40
	control.SetDeadline(time.Now().Add(20 * time.Millisecond))

	res := RunQueue(cfg, 1)
	assert.True(t, res.Interrupted)
	assert.Greater(t, res.Ops, 0)
	assert.Less(t, res.Ops, cfg.Ops)
	assert.True(t, res.OK())
}

func TestReportJSON(t *testing.T) {
	rep := &Report{
		StartedUnix: 1700000000,
		Seed:        5,
		Results: []Result{
			{Container: Ring, Seed: 5, Ops: 10, ElapsedNS: 99},
			{Container: Map, Seed: 7, Ops: 3, Mismatches: 1, FirstMismatch: "op 2: Get ok = false, want true", Interrupted: true},
		},
	}
	assert.True(t, rep.Failed())
	assert.True(t, rep.Interrupted())

	data, err := rep.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"first_mismatch":"op 2: Get ok = false, want true"`)

	back, err := DecodeReport(data)
	require.NoError(t, err)
	assert.Equal(t, rep, back)

	_, err = DecodeReport([]byte("{"))
	assert.Error(t, err)
}

func TestStoreRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := OpenStore(path)
	require.NoError(t, err)
	defer s.Close()

	first := &Report{StartedUnix: 1, Results: []Result{
		{Container: Ring, Seed: 1, Ops: 100},
		{Container: Map, Seed: 2, Ops: 50, Mismatches: 2, FirstMismatch: "op 7: Len = 3, want 4"},
	}}
	second := &Report{StartedUnix: 2, Results: []Result{
		{Container: Map, Seed: 3, Ops: 60, Interrupted: true},
	}}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	got, err := s.Recent(ctx, Map, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.Results[0], got[0])
	assert.Equal(t, first.Results[1], got[1])

	got, err = s.Recent(ctx, Map, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.Recent(ctx, Queue, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	// reopening keeps history
	require.NoError(t, s.Close())
	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err = s.Recent(ctx, Ring, 10)
	require.NoError(t, err)
	assert.Equal(t, first.Results[:1], got)
}
