package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

var testAssets = &PromptAssets{
	Template: json.RawMessage(`{"email":"","phone":""}`),
	Query:    "Fill the template from the resume.",
}

func TestParseFencedJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "surrounding chatter",
			reply: "Sure, here you go:\n```json\n{\"email\":\"a@x.com\",\"phone\":\"555\"}\n```\nLet me know!",
			want:  `{"email":"a@x.com","phone":"555"}`,
		},
		{
			name:  "first block wins",
			reply: "```json\n{\"n\":1}\n```\nand also\n```json\n{\"n\":2}\n```",
			want:  `{"n":1}`,
		},
		{
			name:  "upper-case label and CRLF",
			reply: "```JSON\r\n{\n  \"n\": 1\n}\r\n```",
			want:  `{"n":1}`,
		},
		{
			name:  "no trailing newline before fence",
			reply: "```json\n{\"n\":1}```",
			want:  `{"n":1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFencedJSON(tt.reply)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestParseFencedJSONMalformed(t *testing.T) {
	for name, reply := range map[string]string{
		"no fence":        `{"email":"a@x.com"}`,
		"unlabeled fence": "```\n{\"n\":1}\n```",
		"invalid json":    "```json\n{email: a@x.com\n```",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFencedJSON(reply)
			assert.True(t, errors.Is(err, apperror.ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestExtractBuildsSinglePrompt(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n{\"email\":\"a@x.com\"}\n```"}
	e := NewProfileExtractor(gen, nil)

	got, err := e.Extract(context.Background(), "Jane Doe Engineer", testAssets)

	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@x.com"}`, string(got))
	require.Len(t, gen.prompts, 1)
	assert.Equal(t,
		`resume:Jane Doe Engineer, json_format:{"email":"","phone":""} query:Fill the template from the resume.`,
		gen.prompts[0])
}

func TestExtractModelFailure(t *testing.T) {
	e := NewProfileExtractor(&stubGenerator{err: errors.New("quota exceeded")}, nil)

	_, err := e.Extract(context.Background(), "text", testAssets)

	assert.Equal(t, apperror.KindModelInvocation, apperror.KindOf(err))
}

func TestExtractModelTimeout(t *testing.T) {
	e := NewProfileExtractor(&stubGenerator{err: fmt.Errorf("generate: %w", context.DeadlineExceeded)}, nil)

	_, err := e.Extract(context.Background(), "text", testAssets)

	assert.Equal(t, apperror.KindModelTimeout, apperror.KindOf(err))
}

func TestExtractMalformedReply(t *testing.T) {
	e := NewProfileExtractor(&stubGenerator{reply: "I could not read this resume."}, nil)

	_, err := e.Extract(context.Background(), "text", testAssets)

	assert.Equal(t, apperror.KindMalformedResponse, apperror.KindOf(err))
}
