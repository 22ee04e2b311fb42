package main

import (
	"context"
	"fmt"

	"github.com/muesli/termenv"

	"github.com/hsmkit/hsm/pkg/chart"
	"github.com/hsmkit/hsm/pkg/domain"
	"github.com/hsmkit/hsm/pkg/registry"
)

// Application events for the recorder demo.
const (
	evPower = domain.User + iota
	evStop
	evPlay
	evPause
	evRec
	evRew
	evFF
)

// machine bundles everything the subcommands need to drive the demo:
// bindings, the start state, and the event-name table.
type machine struct {
	bindings []domain.Binding
	root     *domain.State
	events   map[string]domain.EventID
}

// narrate prints one colored line of recorder narration.
func narrate(text string) domain.Handler {
	return func(ctx context.Context, msg *domain.Message) domain.Result {
		p := termenv.ColorProfile()
		fmt.Println(termenv.String(text).Foreground(p.Color("6")))
		return domain.Stay()
	}
}

// newRecorder builds the canonical cassette-recorder machine: a standby
// state, an idle section with tape winding, and playback/recording sections
// with paused substates.
func newRecorder() *machine {
	off := domain.NewState("Off")
	idle := domain.NewState("Idle")
	idleStopped := idle.NewChild("Stopped")
	idleForwarding := idle.NewChild("FastForwarding")
	idleRewinding := idle.NewChild("Rewinding")
	playing := domain.NewState("Playing")
	playingPlaying := playing.NewChild("Playing")
	playingPaused := playing.NewChild("Paused")
	recording := domain.NewState("Recording")
	recordingRecording := recording.NewChild("Recording")
	recordingPaused := recording.NewChild("Paused")

	return &machine{
		root: off,
		events: map[string]domain.EventID{
			"Power": evPower,
			"Stop":  evStop,
			"Play":  evPlay,
			"Pause": evPause,
			"Rec":   evRec,
			"Rew":   evRew,
			"FF":    evFF,
		},
		bindings: []domain.Binding{
			domain.Handle(off, domain.Entry, narrate("Enter standby mode")),
			domain.Handle(off, domain.Exit, narrate("Exit standby mode")),
			domain.Transit(off, evPower, idle),
			domain.Handle(idle, domain.Entry, narrate("Enter idle")),
			domain.Handle(idle, domain.Exit, narrate("Exit idle")),
			domain.Transit(idle, domain.Init, idleStopped),
			domain.Transit(idle, evPower, off),
			domain.Transit(idle, evPlay, playing),
			domain.Transit(idle, evRec, recording),
			domain.Handle(idleStopped, domain.Entry, narrate("Get ready")),
			domain.Transit(idleStopped, evRew, idleRewinding),
			domain.Transit(idleStopped, evFF, idleForwarding),
			domain.Handle(idleRewinding, domain.Entry, narrate("Rewind")),
			domain.Transit(idleRewinding, evStop, idle),
			domain.Handle(idleForwarding, domain.Entry, narrate("Fast forward")),
			domain.Transit(idleForwarding, evStop, idle),
			domain.Handle(playing, domain.Entry, narrate("Enter playing")),
			domain.Handle(playing, domain.Exit, narrate("Exit playing")),
			domain.Transit(playing, domain.Init, playingPlaying),
			domain.Transit(playing, evPower, off),
			domain.Transit(playing, evStop, idle),
			domain.Handle(playingPlaying, domain.Entry, narrate("Playing")),
			domain.Transit(playingPlaying, evPause, playingPaused),
			domain.Handle(playingPaused, domain.Entry, narrate("Playing pause")),
			domain.Transit(playingPaused, evPlay, playingPlaying),
			domain.Handle(recording, domain.Entry, narrate("Enter recording")),
			domain.Handle(recording, domain.Exit, narrate("Exit recording")),
			domain.Transit(recording, domain.Init, recordingRecording),
			domain.Transit(recording, evPower, off),
			domain.Transit(recording, evStop, idle),
			domain.Handle(recordingRecording, domain.Entry, narrate("Recording")),
			domain.Transit(recordingRecording, evPause, recordingPaused),
			domain.Handle(recordingPaused, domain.Entry, narrate("Recording pause")),
			domain.Transit(recordingPaused, evRec, recordingRecording),
		},
	}
}

// demoHandlers registers the narration handlers a chart file can reference.
func demoHandlers() *registry.Registry {
	reg := registry.NewRegistry()
	for name, text := range map[string]string{
		"enter_standby":   "Enter standby mode",
		"exit_standby":    "Exit standby mode",
		"enter_idle":      "Enter idle",
		"exit_idle":       "Exit idle",
		"get_ready":       "Get ready",
		"rewind":          "Rewind",
		"fast_forward":    "Fast forward",
		"enter_playing":   "Enter playing",
		"exit_playing":    "Exit playing",
		"playing":         "Playing",
		"playing_pause":   "Playing pause",
		"enter_recording": "Enter recording",
		"exit_recording":  "Exit recording",
		"recording":       "Recording",
		"recording_pause": "Recording pause",
	} {
		reg.Register(name, narrate(text))
	}
	return reg
}

// loadMachine returns the recorder, either built in code or from a chart
// file when chartPath is set.
func loadMachine(chartPath, rootPath string) (*machine, error) {
	if chartPath == "" {
		return newRecorder(), nil
	}

	ch, err := chart.Load(chartPath, demoHandlers())
	if err != nil {
		return nil, err
	}
	root, err := ch.State(rootPath)
	if err != nil {
		return nil, err
	}
	return &machine{
		bindings: ch.Bindings,
		root:     root,
		events:   ch.Events(),
	}, nil
}

// eventName maps identifiers back to declared names for labels and logs.
func (m *machine) eventName(id domain.EventID) string {
	for name, candidate := range m.events {
		if candidate == id {
			return name
		}
	}
	return id.String()
}

// states collects every state referenced by the bindings, ancestors
// included, in declaration order. Used before an engine exists.
func (m *machine) states() []*domain.State {
	var out []*domain.State
	seen := make(map[*domain.State]bool)
	add := func(s *domain.State) {
		for ; s != nil && !seen[s]; s = s.Parent() {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, b := range m.bindings {
		add(b.Owner)
		add(b.Target)
	}
	return out
}
