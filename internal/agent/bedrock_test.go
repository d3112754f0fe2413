package agent

import (
	"log/slog"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func streamOf(events ...types.ResponseStream) <-chan types.ResponseStream {
	ch := make(chan types.ResponseStream, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func chunk(s string) *types.ResponseStreamMemberChunk {
	return &types.ResponseStreamMemberChunk{Value: types.PayloadPart{Bytes: []byte(s)}}
}

func TestAccumulate_ConcatenatesInOrder(t *testing.T) {
	got := accumulate(streamOf(chunk("Hel"), chunk("lo, "), chunk("world")), testLogger())
	if got != "Hello, world" {
		t.Errorf("expected %q, got %q", "Hello, world", got)
	}
}

func TestAccumulate_EmptyStream(t *testing.T) {
	if got := accumulate(streamOf(), testLogger()); got != "" {
		t.Errorf("expected empty accumulation, got %q", got)
	}
}

func TestAccumulate_SkipsPayloadlessChunks(t *testing.T) {
	got := accumulate(streamOf(
		chunk("Hello"),
		&types.ResponseStreamMemberChunk{Value: types.PayloadPart{}},
		chunk(" there"),
	), testLogger())
	if got != "Hello there" {
		t.Errorf("expected %q, got %q", "Hello there", got)
	}
}

func TestAccumulate_SkipsBlankChunks(t *testing.T) {
	got := accumulate(streamOf(chunk("  \n"), chunk("answer")), testLogger())
	if got != "answer" {
		t.Errorf("whitespace-only chunks should be dropped, got %q", got)
	}
}

func TestAccumulate_SkipsNonChunkEvents(t *testing.T) {
	got := accumulate(streamOf(
		&types.ResponseStreamMemberTrace{},
		chunk("answer"),
	), testLogger())
	if got != "answer" {
		t.Errorf("trace events should be skipped, got %q", got)
	}
}

func TestFallbackAnswer_Fixed(t *testing.T) {
	if fallbackAnswer != "No response from the agent." {
		t.Errorf("fallback answer changed: %q", fallbackAnswer)
	}
}
