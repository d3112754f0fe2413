// Package agent invokes the Bedrock conversational agent and collects its
// streamed answer into a single string.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// fallbackAnswer is returned when the stream completes without any text.
// Callers treat it as a normal answer, not an error.
const fallbackAnswer = "No response from the agent."

// ErrInvoke wraps any failure of the agent call, from connection setup through
// mid-stream reads. The bridge does not retry these.
var ErrInvoke = errors.New("agent invocation failed")

// Config configures the Bedrock client.
type Config struct {
	AgentID      string
	AgentAliasID string
	Logger       *slog.Logger
}

// Bedrock implements the agent call over the bedrock-agent-runtime API.
type Bedrock struct {
	api     *bedrockagentruntime.Client
	agentID string
	aliasID string
	logger  *slog.Logger
}

// New creates a Bedrock agent client from a resolved AWS config.
func New(awsCfg aws.Config, cfg Config) *Bedrock {
	return &Bedrock{
		api:     bedrockagentruntime.NewFromConfig(awsCfg),
		agentID: cfg.AgentID,
		aliasID: cfg.AgentAliasID,
		logger:  cfg.Logger,
	}
}

// Invoke sends the question to the agent and returns the accumulated answer.
// The session ID correlates multi-turn state on the agent side; tracing stays
// on and the session stays open so follow-up questions share context.
func (b *Bedrock) Invoke(ctx context.Context, question, sessionID string) (string, error) {
	out, err := b.api.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(b.agentID),
		AgentAliasId: aws.String(b.aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(question),
		EnableTrace:  aws.Bool(true),
		EndSession:   aws.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvoke, err)
	}

	stream := out.GetStream()
	defer stream.Close()

	answer := accumulate(stream.Events(), b.logger)
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: stream: %v", ErrInvoke, err)
	}

	b.logger.Debug("agent answered", "session_id", sessionID, "answer_len", len(answer))
	if answer == "" {
		return fallbackAnswer, nil
	}
	return answer, nil
}

// accumulate concatenates chunk payloads in arrival order. Events without a
// payload and whitespace-only payloads are skipped, not treated as errors.
func accumulate(events <-chan types.ResponseStream, logger *slog.Logger) string {
	var sb strings.Builder
	for ev := range events {
		chunk, ok := ev.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		if len(chunk.Value.Bytes) == 0 {
			continue
		}
		text := string(chunk.Value.Bytes)
		if strings.TrimSpace(text) == "" {
			continue
		}
		logger.Debug("agent chunk", "bytes", len(chunk.Value.Bytes))
		sb.WriteString(text)
	}
	return sb.String()
}
