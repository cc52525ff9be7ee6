package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

type stubClient struct {
	reply  string
	err    error
	prompt string
}

func (s *stubClient) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubClient) Backend() string { return "stub" }

func slidesJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"header":"H%d","content":"C%d","citation":"S%d"}`, i+1, i+1, i+1)
	}
	return "```json\n[" + strings.Join(parts, ",") + "]\n```"
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := &stubClient{reply: slidesJSON(3)}
		records, err := New(client, zap.NewNop()).Generate(context.Background(), "Rust", 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "H1", records[0].Header)
		assert.Equal(t, "S3", records[2].Citation)
		assert.Equal(t, BuildPrompt("Rust", 3), client.prompt)
	})

	t.Run("Extra slides are truncated", func(t *testing.T) {
		records, err := New(&stubClient{reply: slidesJSON(5)}, zap.NewNop()).Generate(context.Background(), "Rust", 2)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("Backend failure", func(t *testing.T) {
		backendErr := fmt.Errorf("%w: status 500", model.ErrGenerationFailed)
		_, err := New(&stubClient{err: backendErr}, zap.NewNop()).Generate(context.Background(), "Rust", 2)
		assert.True(t, errors.Is(err, model.ErrGenerationFailed))
	})

	t.Run("Malformed reply", func(t *testing.T) {
		_, err := New(&stubClient{reply: "no json here"}, zap.NewNop()).Generate(context.Background(), "Rust", 2)
		assert.ErrorIs(t, err, model.ErrMalformedReply)
	})
}
