package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/effective-security/llmbench/pkg/llms"
	"github.com/effective-security/llmbench/pkg/llms/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := openai.New(openai.WithModel("gpt-5-mini"))
	assert.ErrorIs(t, err, openai.ErrMissingToken)

	_, err = openai.New(openai.WithToken("test-token"))
	assert.EqualError(t, err, "openai: model is required")

	o, err := openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-5-mini"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", o.GetName())
	assert.Equal(t, llms.ProviderOpenAI, o.GetProviderType())

	o, err = openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-41-mini"),
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithAPIVersion("2025-01-01-preview"),
	)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAzure, o.GetProviderType())
}

func Test_GenerateResponse(t *testing.T) {
	var gotReq map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"model": "gpt-5-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`)
	}))
	defer srv.Close()

	o, err := openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-5-mini"),
		openai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	cfg := &llms.Config{
		Model:       "gpt-5-mini",
		Temperature: 0.2,
		MaxTokens:   256,
	}
	res, err := o.GenerateResponse(context.Background(), "You are terse.", "Say hello.", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", res)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "gpt-5-mini", gotReq["model"])
	assert.Equal(t, 256.0, gotReq["max_completion_tokens"])

	msgs, ok := gotReq["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are terse.", first["content"])
	second := msgs[1].(map[string]any)
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "Say hello.", second["content"])
}

func Test_GenerateResponse_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`)
	}))
	defer srv.Close()

	o, err := openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-5-mini"),
		openai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = o.GenerateResponse(context.Background(), "", "hello", &llms.Config{Model: "gpt-5-mini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func Test_StreamResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"there.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	o, err := openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-5-mini"),
		openai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	seq := o.StreamResponse(context.Background(), "", "hello", &llms.Config{Model: "gpt-5-mini"})

	var chunks []string
	for chunk, err := range seq {
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"Hel", "lo ", "there."}, chunks)
}

func Test_StreamResponse_StopEarly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < 100; i++ {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":\"chunk%d \"}}]}\n\n", i)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	o, err := openai.New(
		openai.WithToken("test-token"),
		openai.WithModel("gpt-5-mini"),
		openai.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	seq := o.StreamResponse(context.Background(), "", "hello", &llms.Config{Model: "gpt-5-mini"})

	var chunks []string
	for chunk, err := range seq {
		require.NoError(t, err)
		chunks = append(chunks, chunk)
		if len(chunks) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"chunk0 ", "chunk1 "}, chunks)
}

func Test_GenerateResponse_Azure(t *testing.T) {
	var gotPath, gotAPIVersion, gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIVersion = r.URL.Query().Get("api-version")
		gotAPIKey = r.Header.Get("api-key")
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`)
	}))
	defer srv.Close()

	o, err := openai.New(
		openai.WithToken("azure-token"),
		openai.WithModel("gpt-41-mini"),
		openai.WithBaseURL(srv.URL),
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithAPIVersion("2025-01-01-preview"),
	)
	require.NoError(t, err)

	res, err := o.GenerateResponse(context.Background(), "", "hello", &llms.Config{Model: "gpt-41-mini"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)

	assert.Equal(t, "/openai/deployments/gpt-41-mini/chat/completions", gotPath)
	assert.Equal(t, "2025-01-01-preview", gotAPIVersion)
	assert.Equal(t, "azure-token", gotAPIKey)
}
