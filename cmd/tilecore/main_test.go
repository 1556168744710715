package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamaquest/internal/config"
	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/events"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/world"
	"github.com/llamasearchai/llamaquest/internal/injector"
)

func writeMap(t *testing.T, rows ...string) string {
	t.Helper()
	m, err := world.ParseTileMap("test", rows)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, world.SaveFile(path, m))
	return path
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: silent\nphysics:\n  zones:\n    moon: {gravity: 1, friction: 0}\n"), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"-config", writeConfig(t)}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestPathCommand(t *testing.T) {
	m := writeMap(t,
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"#####",
	)
	out, err := runCLI(t, "path", "-map", m, "-from", "1,1", "-to", "3,3")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "#####\n#S"), out)
	require.Contains(t, out, "G#")
	require.Contains(t, out, "length 5 cost 4.000")

	_, err = runCLI(t, "path", "-map", m, "-from", "1,1", "-to", "2,2")
	require.ErrorIs(t, err, errs.ErrUnwalkableEndpoint)

	_, err = runCLI(t, "path", "-map", m, "-from", "1;1", "-to", "3,3")
	require.Error(t, err)
}

func TestFOVCommand(t *testing.T) {
	m := writeMap(t,
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)
	out, err := runCLI(t, "fov", "-map", m, "-at", "0,2", "-radius", "10")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "@.#  ", lines[2])
}

func TestTrajectoryCommand(t *testing.T) {
	out, err := runCLI(t, "trajectory", "-pos", "0,0", "-vel", "1,0", "-steps", "2", "-dt", "1", "-zone", "moon")
	require.NoError(t, err)

	var points [][2]float64
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 3)
	require.InDelta(t, 1, points[1][1], 1e-9)
	require.InDelta(t, 3, points[2][1], 1e-9)

	_, err = runCLI(t, "trajectory", "-steps", "-1")
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestDungeonCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "crypt.json")
	_, err := runCLI(t, "dungeon", "-w", "30", "-h", "20", "-seed", "7", "-out", out)
	require.NoError(t, err)

	m, err := world.LoadFile(out)
	require.NoError(t, err)
	require.Equal(t, 30, m.Width)
	require.Equal(t, world.Wall, m.At(grid.C(0, 0)))

	printed, err := runCLI(t, "dungeon", "-w", "30", "-h", "20", "-seed", "7")
	require.NoError(t, err)
	require.Equal(t, m.String()+"\n", printed)
}

func TestRun_Usage(t *testing.T) {
	_, err := runCLI(t)
	require.ErrorContains(t, err, "missing command")

	_, err = runCLI(t, "teleport")
	require.ErrorContains(t, err, "unknown command")
}

func TestParsePair(t *testing.T) {
	c, err := parseCoord(" 3, 4")
	require.NoError(t, err)
	require.Equal(t, grid.C(3, 4), c)

	v, err := parseVec("1.5,-2")
	require.NoError(t, err)
	require.InDelta(t, -2, v.Y(), 1e-12)

	_, err = parseCoord("3")
	require.Error(t, err)
	_, err = parseVec("a,1")
	require.Error(t, err)
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestWatchCommand(t *testing.T) {
	m := writeMap(t,
		"....",
		"###.",
		"....",
	)
	cfg := writeConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"-config", cfg, "watch", "-map", m, "-from", "0,0", "-to", "0,2"}, &stdout, io.Discard)
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "length 9 cost 8.000")
	}, 2*time.Second, 10*time.Millisecond)

	edited, err := world.ParseTileMap("test", []string{
		"....",
		"....",
		"....",
	})
	require.NoError(t, err)
	require.NoError(t, world.SaveFile(m, edited))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "length 3")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestReplanOnReload(t *testing.T) {
	cfgPath := writeConfig(t)
	cfg, err := config.LoadFile(cfgPath)
	require.NoError(t, err)
	tk, err := injector.InitializeToolkit(cfg)
	require.NoError(t, err)

	var stdout bytes.Buffer
	a := &app{tk: tk, stdout: &stdout}
	sub, err := tk.Events.Subscribe(events.MapReloaded, a.replanOnReload(grid.C(0, 0), grid.C(2, 0)))
	require.NoError(t, err)
	defer sub.Cancel()

	err = tk.Events.Publish(events.NewEvent(events.MapReloaded, "test", "not a map"))
	require.ErrorContains(t, err, "unexpected payload string")
	err = tk.Events.Publish(events.NewEvent(events.MapReloaded, "test", world.Update{Path: "empty.yaml"}))
	require.Error(t, err)
	require.Empty(t, stdout.String())

	m, err := world.ParseTileMap("row", []string{"..."})
	require.NoError(t, err)
	require.NoError(t, tk.Events.Publish(events.NewEvent(events.MapReloaded, "test", world.Update{Path: "row.yaml", Map: m})))
	require.Contains(t, stdout.String(), "length 3 cost 2.000")
}
