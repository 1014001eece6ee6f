// Package playback implements the playback controller (spec §4.6, C7): a
// three-state machine that forks an external decoder per format, tracks
// now-playing state, pre-reads file heads for gapless transitions, and
// fires the three background jobs (pre-cache, history append, read-ahead)
// as the progress tick's conditions become true. Grounded on the teacher's
// internal/export (os/exec child process launching) generalized from a
// one-shot ffmpeg conversion to a long-lived, signal-controlled decoder
// child, and on original_source/src/glaciera.c's play()/child-exit handler
// state machine.
package playback

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/glacierr"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
)

// State is one of §4.6's three playback states.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// preReadBlock is the 4 KB unit §4.6 reads ahead for cache-warming,
// pre-caching, and read-ahead.
const preReadBlock = 4096

// Controller owns the single NowPlaying record and its child decoder
// process. All exported methods are safe for the single UI goroutine to
// call; the three background jobs it launches touch the filesystem and
// the history file, and Controller state only to clear their own busy
// flags (and record what they warmed or logged) under mu (§5).
type Controller struct {
	mu sync.Mutex

	state       State
	current     *tuneinfo.Track
	startedAt   time.Time
	cmd         *exec.Cmd
	waitDone    chan struct{} // closed by the single waiter goroutine once cmd.Wait() reaps the child
	scratch     *os.File
	scratchPath string

	players    config.Players
	historyDir string

	precacheBusy  bool
	historyBusy   bool
	readAheadBusy bool

	precachedPath string // path already warmed by the pre-cache job, avoids duplicate work
	historyLogged string // path already appended to history for the current play
}

// New builds a Controller that launches players per cfg and appends
// history into historyDir.
func New(cfg config.Players, historyDir string) *Controller {
	return &Controller{players: cfg, historyDir: historyDir}
}

// State reports the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the now-playing track, or nil if Idle.
func (c *Controller) Current() *tuneinfo.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// StartedAt returns when the current track began playing.
func (c *Controller) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// Elapsed reports seconds since playback of the current track began.
func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return 0
	}
	return int(time.Since(c.startedAt).Seconds())
}

// playerFor resolves the external decoder command+flags for track's
// extension, matching the §6.2 per-format [players] table.
func (c *Controller) playerFor(path string) (command, flags string, ok bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".mp3"):
		return c.players.MP3Player, c.players.MP3Flags, c.players.MP3Player != ""
	case strings.HasSuffix(lower, ".ogg"):
		return c.players.OggPlayer, c.players.OggFlags, c.players.OggPlayer != ""
	case strings.HasSuffix(lower, ".flac"):
		return c.players.FLACPlayer, c.players.FLACFlags, c.players.FLACPlayer != ""
	case strings.HasSuffix(lower, ".pls"), strings.HasSuffix(lower, ".m3u"):
		return c.players.PLSPlayer, c.players.PLSFlags, c.players.PLSPlayer != ""
	default:
		return "", "", false
	}
}

// Play implements §4.6's play(track) transition from any state: warm the
// file cache, tear down any existing child, fork the format's player with
// stdout captured to a scratch file, and transition to Playing.
func (c *Controller) Play(t *tuneinfo.Track) error {
	warmHead(t.Path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.killChildLocked(); err != nil {
		return err
	}

	command, flags, ok := c.playerFor(t.Path)
	if !ok {
		return glacierr.New(glacierr.KindChildSpawn, "playback.Play", t.Path, nil)
	}

	scratch, err := os.CreateTemp("", "glaciera-stdout-*.log")
	if err != nil {
		return glacierr.New(glacierr.KindChildSpawn, "playback.Play", t.Path, err)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		scratch.Close()
		return glacierr.New(glacierr.KindChildSpawn, "playback.Play", t.Path, err)
	}
	defer devNull.Close()

	args := append(splitFlags(flags), t.Path)
	cmd := exec.Command(command, args...)
	cmd.Stdout = scratch
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		scratch.Close()
		return glacierr.New(glacierr.KindChildSpawn, "playback.Play", t.Path, err)
	}

	waitDone := make(chan struct{})
	c.cmd = cmd
	c.waitDone = waitDone
	c.scratch = scratch
	c.scratchPath = scratch.Name()
	c.current = t
	c.startedAt = time.Now()
	c.state = Playing
	c.precachedPath = ""
	c.historyLogged = ""

	// An exited but unreaped child (a zombie) still answers kill(pid, 0), so liveness can only be
	// told apart from exit by actually waiting on the child. cmd.Wait() may
	// only be called once, so this single goroutine is the sole waiter;
	// killChildLocked blocks on waitDone instead of calling Wait itself.
	go func(waited *exec.Cmd, done chan struct{}) {
		_ = waited.Wait()
		close(done)
	}(cmd, waitDone)
	return nil
}

// TogglePause sends SIGSTOP/SIGCONT to the child and flips the paused flag
// (§4.6 toggle_pause). While paused, ChildExited reports false and Tick
// starts no background jobs, which suppresses the child-exit handling.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}

	switch c.state {
	case Playing:
		if err := c.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
			return glacierr.New(glacierr.KindChildSpawn, "playback.TogglePause", "", err)
		}
		c.state = Paused
	case Paused:
		if err := c.cmd.Process.Signal(syscall.SIGCONT); err != nil {
			return glacierr.New(glacierr.KindChildSpawn, "playback.TogglePause", "", err)
		}
		c.state = Playing
	}
	return nil
}

// Stop tears down the current child and returns to Idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.killChildLocked(); err != nil {
		return err
	}
	c.current = nil
	c.state = Idle
	return nil
}

// killChildLocked terminates any running child with SIGTERM and blocks for
// the waiter goroutine to reap it. Caller must hold c.mu; the wait itself
// happens with the lock released so the waiter goroutine (which also takes
// no lock around Wait) can't deadlock against it.
func (c *Controller) killChildLocked() error {
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	_ = c.cmd.Process.Signal(syscall.SIGTERM)
	done := c.waitDone
	c.mu.Unlock()
	<-done
	c.mu.Lock()

	if c.scratch != nil {
		c.scratch.Close()
		os.Remove(c.scratchPath)
	}
	c.cmd = nil
	c.waitDone = nil
	c.scratch = nil
	c.scratchPath = ""
	return nil
}

// ChildExited reports whether the current child has exited without
// blocking, so the UI's child-exit handler (§4.6 "child_exited") can decide
// to advance to the next track. It is safe to poll this every tick. Checks
// waitDone rather than signalling the pid, because an exited but unreaped
// zombie still answers kill(pid, 0) successfully.
func (c *Controller) ChildExited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd == nil || c.state != Playing {
		return false
	}
	select {
	case <-c.waitDone:
		return true
	default:
		return false
	}
}

// StreamTitle returns the most recently parsed icecast StreamTitle from the
// current child's captured stdout, or "" if none has appeared yet. Grounded
// on original_source/src/glaciera.c's update_song_progress_handler, which
// greps the same scratch file for `StreamTitle='…'` lines.
func (c *Controller) StreamTitle() string {
	c.mu.Lock()
	path := c.scratchPath
	c.mu.Unlock()
	if path == "" {
		return ""
	}
	data, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer data.Close()
	return parseStreamTitle(data)
}

// parseStreamTitle scans r for every "StreamTitle='...'" occurrence and
// returns the last one found, matching the original's fgets-loop-over-the-
// whole-file behavior (later lines overwrite the parsed title as the
// stream announces new tracks).
func parseStreamTitle(r io.Reader) string {
	const marker = "StreamTitle='"
	result := ""

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "StreamTitle") {
			continue
		}
		start := strings.Index(line, marker)
		if start < 0 {
			continue
		}
		rest := line[start+len(marker):]
		end := strings.Index(rest, "';")
		if end < 0 {
			result = rest
			continue
		}
		result = rest[:end]
	}
	return result
}
