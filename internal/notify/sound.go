package notify

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/gen2brain/beeep"
)

// BeepPlayer plays the platform default alert tone. Used when no clip
// file is configured.
type BeepPlayer struct{}

func (BeepPlayer) Play(context.Context) error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// players are the command-line audio players probed in order for clip
// playback.
var players = [][]string{
	{"paplay"},
	{"aplay", "-q"},
	{"afplay"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// ClipPlayer plays a configured sound file through whichever
// command-line player the host provides. Starting a new clip stops the
// previous one first, so overlapping reminders never stack audio.
type ClipPlayer struct {
	file string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewClipPlayer returns a player for the given clip file, or an error
// when no usable audio player exists on PATH.
func NewClipPlayer(file string) (*ClipPlayer, error) {
	if file == "" {
		return nil, errors.New("notify: no sound file configured")
	}
	if resolvePlayer() == nil {
		return nil, errors.New("notify: no audio player found on PATH")
	}
	return &ClipPlayer{file: file}, nil
}

// Play stops any clip still playing and starts the configured one.
// It does not wait for playback to finish.
func (p *ClipPlayer) Play(ctx context.Context) error {
	player := resolvePlayer()
	if player == nil {
		return errors.New("notify: no audio player found on PATH")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// The previous clip's reaper goroutine collects the killed process.
	if p.current != nil && p.current.Process != nil {
		_ = p.current.Process.Kill()
		p.current = nil
	}

	args := append(player[1:], p.file)
	cmd := exec.CommandContext(ctx, player[0], args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	p.current = cmd

	// Reap the process in the background so a finished clip doesn't
	// linger as a zombie until the next Play.
	go func() { _ = cmd.Wait() }()

	return nil
}

func resolvePlayer() []string {
	for _, candidate := range players {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return candidate
		}
	}
	return nil
}
