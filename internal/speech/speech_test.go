package speech

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"English", "Hindi", "Tamil", "Bengali", "Telugu", "Marathi"} {
		if !Supported(lang) {
			t.Errorf("Supported(%q) = false, want true", lang)
		}
	}
	for _, lang := range []string{"French", "hindi", ""} {
		if Supported(lang) {
			t.Errorf("Supported(%q) = true, want false", lang)
		}
	}
}

func TestSynthesizeUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the network for an unsupported language")
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL, nil)
	_, err := s.Synthesize(context.Background(), "hello", "French")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("Synthesize() error = %v, want %v", err, ErrUnsupportedLanguage)
	}
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	audio := []byte("fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "hi" {
			t.Errorf("tl = %q, want hi", got)
		}
		if got := r.URL.Query().Get("q"); got != "namaste" {
			t.Errorf("q = %q, want namaste", got)
		}
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL, nil)
	got, err := s.Synthesize(context.Background(), "namaste", "Hindi")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Synthesize() = %q, want %q", got, audio)
	}
}

func TestSynthesizeTruncatesLongText(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL, nil)
	long := strings.Repeat("a", 500)
	if _, err := s.Synthesize(context.Background(), long, "English"); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len([]rune(gotQuery)) != maxUtteranceRunes {
		t.Errorf("sent %d runes, want %d", len([]rune(gotQuery)), maxUtteranceRunes)
	}
}

func TestSynthesizeServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL, nil)
	if _, err := s.Synthesize(context.Background(), "hello", "English"); err == nil {
		t.Error("Synthesize() error = nil, want status error")
	}
}
