package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// CommandSpeaker runs a local TTS program with the message as last argument
type CommandSpeaker struct {
	program string
	args    []string
	logger  zerolog.Logger
}

// DefaultCommand returns the platform TTS program
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// NewCommandSpeaker parses command ("espeak -s 140") and checks the program exists.
// voice is passed as -v when set and the command does not already carry one.
func NewCommandSpeaker(command, voice string, logger zerolog.Logger) (*CommandSpeaker, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand()
	}
	fields := strings.Fields(command)

	program, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("speech command %q not found: %w", fields[0], err)
	}

	args := fields[1:]
	if voice != "" && !hasFlag(args, "-v") && isLocalVoiceProgram(fields[0]) {
		args = append(args, "-v", voice)
	}

	return &CommandSpeaker{
		program: program,
		args:    args,
		logger:  logger.With().Str("speaker", "command").Str("program", fields[0]).Logger(),
	}, nil
}

func (s *CommandSpeaker) Name() string { return "command" }

// Speak blocks until the program exits
func (s *CommandSpeaker) Speak(ctx context.Context, message string) error {
	args := append(append([]string(nil), s.args...), message)

	s.logger.Debug().Int("textLen", len(message)).Msg("Speaking with local command")

	cmd := exec.CommandContext(ctx, s.program, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		s.logger.Error().Err(err).Str("output", string(output)).Msg("Speech command failed")
		return fmt.Errorf("speech command failed: %w", err)
	}
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// Voice names like "alloy" mean nothing to generic programs
func isLocalVoiceProgram(program string) bool {
	switch program {
	case "say", "espeak", "espeak-ng":
		return true
	}
	return false
}
