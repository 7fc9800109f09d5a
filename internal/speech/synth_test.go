package speech

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
)

type fakeSynth struct {
	calls int
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(context.Context, string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func TestCache_MissSynthesizesAndWrites(t *testing.T) {
	synth := &fakeSynth{audio: []byte("RIFFdata")}
	cache, err := NewCache(synth, t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	path, hash, err := cache.Speak(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if hash == "" || path == "" {
		t.Fatalf("expected path and hash, got %q %q", path, hash)
	}
	if synth.calls != 1 {
		t.Fatalf("expected one synthesis call, got %d", synth.calls)
	}

	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, synth.audio) {
		t.Fatalf("unexpected file contents: %q err=%v", data, err)
	}
}

func TestCache_HitSkipsSynthesis(t *testing.T) {
	synth := &fakeSynth{audio: []byte("RIFFdata")}
	cache, err := NewCache(synth, t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	ctx := context.Background()

	path1, hash1, err := cache.Speak(ctx, "hello there")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	path2, hash2, err := cache.Speak(ctx, "hello there")
	if err != nil {
		t.Fatalf("speak again: %v", err)
	}

	if synth.calls != 1 {
		t.Fatalf("expected the cached file reused, got %d synthesis calls", synth.calls)
	}
	if path1 != path2 || hash1 != hash2 {
		t.Fatalf("expected stable path and hash, got %q/%q vs %q/%q", path1, hash1, path2, hash2)
	}
}

func TestCache_DistinctTextDistinctFiles(t *testing.T) {
	synth := &fakeSynth{audio: []byte("RIFFdata")}
	cache, err := NewCache(synth, t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	ctx := context.Background()

	_, hash1, err := cache.Speak(ctx, "hello")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	_, hash2, err := cache.Speak(ctx, "goodbye")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}

	if hash1 == hash2 {
		t.Fatalf("expected distinct hashes, got %q twice", hash1)
	}
	if synth.calls != 2 {
		t.Fatalf("expected two synthesis calls, got %d", synth.calls)
	}
}

func TestCache_SynthesisErrorLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(&fakeSynth{err: errors.New("model down")}, dir)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	if _, _, err := cache.Speak(context.Background(), "hello"); err == nil {
		t.Fatal("expected synthesis error surfaced")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty cache dir, got %d entries", len(entries))
	}
}
