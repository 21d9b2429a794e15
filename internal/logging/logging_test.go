package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

func TestShouldLogProgress(t *testing.T) {
	c := Channels{Progress: 100}
	if !c.ShouldLogProgress(200) {
		t.Fatalf("ShouldLogProgress(200) with Progress=100 = false, want true")
	}
	if c.ShouldLogProgress(150) {
		t.Fatalf("ShouldLogProgress(150) with Progress=100 = true, want false")
	}
	if (Channels{}).ShouldLogProgress(100) {
		t.Fatalf("ShouldLogProgress with Progress=0 (disabled) = true, want false")
	}
}

func TestLogProgressGatedByChannel(t *testing.T) {
	var buf bytes.Buffer
	log := testLogger(&buf)

	Channels{}.LogProgress(log, 100, 1000, 500)
	if buf.Len() != 0 {
		t.Fatalf("LogProgress with Progress disabled wrote output: %s", buf.String())
	}

	Channels{Progress: 100}.LogProgress(log, 100, 1000, 500)
	if buf.Len() == 0 {
		t.Fatalf("LogProgress at a checkpoint wrote nothing")
	}
}

func TestAtLevel(t *testing.T) {
	c := Channels{Level1: 5}
	if !c.AtLevel(4) {
		t.Fatalf("AtLevel(4) with Level1=5 = false, want true")
	}
	if c.AtLevel(5) {
		t.Fatalf("AtLevel(5) with Level1=5 = true, want false")
	}
}

func TestLogRangeGatedByChannel(t *testing.T) {
	var buf bytes.Buffer
	log := testLogger(&buf)

	Channels{}.LogRange(log, "word", []byte("cat"))
	if buf.Len() != 0 {
		t.Fatalf("LogRange with Range disabled wrote output: %s", buf.String())
	}

	Channels{Range: true}.LogRange(log, "word", []byte("cat"))
	if buf.Len() == 0 {
		t.Fatalf("LogRange with Range enabled wrote nothing")
	}
}
