package speech

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/feels/internal/model"
)

type recordingSpeaker struct {
	mu       sync.Mutex
	messages []string
	block    chan struct{}
	err      error
}

func (r *recordingSpeaker) Name() string { return "recording" }

func (r *recordingSpeaker) Speak(_ context.Context, message string) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return r.err
}

func (r *recordingSpeaker) spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func TestDispatcher_SpeaksInOrder(t *testing.T) {
	rec := &recordingSpeaker{}
	d := NewDispatcher(rec, 8, zerolog.Nop())

	for _, msg := range []string{"uno", "dos", "tres"} {
		assert.True(t, d.Speak(msg))
	}
	d.Close()

	assert.Equal(t, []string{"uno", "dos", "tres"}, rec.spoken())
	assert.False(t, d.Speak("tarde"), "closed dispatcher must refuse messages")
	d.Close()
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	rec := &recordingSpeaker{block: make(chan struct{})}
	d := NewDispatcher(rec, 1, zerolog.Nop())

	// The first message may be picked up by the worker, the queue holds one more.
	accepted := 0
	for i := 0; i < 5; i++ {
		if d.Speak("msg") {
			accepted++
		}
	}
	assert.LessOrEqual(t, accepted, 2)
	assert.Equal(t, 5-accepted, d.Dropped())

	close(rec.block)
	d.Close()
	assert.Len(t, rec.spoken(), accepted)
}

func TestDispatcher_SpeakerErrorDoesNotStop(t *testing.T) {
	rec := &recordingSpeaker{err: errors.New("no audio device")}
	d := NewDispatcher(rec, 4, zerolog.Nop())
	d.Speak("a")
	d.Speak("b")
	d.Close()
	assert.Len(t, rec.spoken(), 2)
}

func TestLogSpeaker(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSpeaker(zerolog.New(&buf))

	require.NoError(t, s.Speak(context.Background(), "Sentiment: Alegría (Confidence: 0.99)"))
	assert.Contains(t, buf.String(), "Sentiment: Alegría (Confidence: 0.99)")
	assert.Equal(t, "log", s.Name())
}

func TestCommandSpeaker(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX utilities")
	}

	ok, err := NewCommandSpeaker("true", "alloy", zerolog.Nop())
	require.NoError(t, err)
	assert.NotContains(t, ok.args, "-v")
	assert.NoError(t, ok.Speak(context.Background(), "hola"))

	failing, err := NewCommandSpeaker("false", "", zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, failing.Speak(context.Background(), "hola"))

	_, err = NewCommandSpeaker("definitely-not-a-tts-binary", "", zerolog.Nop())
	assert.ErrorContains(t, err, "not found")
}

func TestOpenAISpeaker_WritesMP3(t *testing.T) {
	audio := []byte("ID3fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("Expected path /audio/speech, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "speech")
	s, err := NewOpenAISpeaker(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, OutputDir: dir}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Speak(context.Background(), "Sentiment: Calma (Confidence: 0.50)"))

	files, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, audio, data)
}

func TestOpenAISpeaker_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	s, err := NewOpenAISpeaker(OpenAIConfig{APIKey: "bad", BaseURL: server.URL, OutputDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, s.Speak(context.Background(), "hola"))
}

func TestNewSpeaker(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	s, err := NewSpeaker(model.SpeechConfig{Engine: "log"}, Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "log", s.Name())

	s, err = NewSpeaker(model.SpeechConfig{Engine: ""}, Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "log", s.Name())

	_, err = NewSpeaker(model.SpeechConfig{Engine: "openai", OutputDir: t.TempDir()}, Options{}, zerolog.Nop())
	assert.ErrorContains(t, err, "API key")

	s, err = NewSpeaker(model.SpeechConfig{Engine: "openai", OutputDir: t.TempDir()}, Options{APIKey: "k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "openai", s.Name())

	_, err = NewSpeaker(model.SpeechConfig{Engine: "morse"}, Options{}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown speech engine")
}
