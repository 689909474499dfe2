package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/dto"
	v1routes "rapidscribe/internal/api/v1/routes"
	apperrors "rapidscribe/internal/app/errors"
)

func TestAssistReturnsReply(t *testing.T) {
	var gotReq *dto.AssistRequest
	svc := &fakeAssistService{
		assistFunc: func(_ context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error) {
			gotReq = req
			return &dto.AssistResponse{
				Reply:      "the answer",
				Transcript: "hello from the recording",
				ModelUsed:  "ai/gemma3n",
				ExchangeID: 7,
			}, nil
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doJSON(t, router, http.MethodPost, "/api/v1/assist", map[string]string{
		"message":    "what was said?",
		"audio_path": "meeting.mp3",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "the answer", body["reply"])
	assert.Equal(t, "hello from the recording", body["transcript"])
	assert.Equal(t, float64(7), body["exchange_id"])

	require.NotNil(t, gotReq)
	assert.Equal(t, "what was said?", gotReq.Message)
	assert.Equal(t, "meeting.mp3", gotReq.AudioPath)
}

func TestAssistRequiresMessage(t *testing.T) {
	svc := &fakeAssistService{}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doJSON(t, router, http.MethodPost, "/api/v1/assist", map[string]string{})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "validation", apiErr["kind"])

	details, ok := apiErr["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "message")
}

func TestAssistRejectsBadFormat(t *testing.T) {
	svc := &fakeAssistService{}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doJSON(t, router, http.MethodPost, "/api/v1/assist", map[string]string{
		"message": "hi",
		"format":  "xml",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "validation", apiErr["kind"])
}

func TestAssistAudioNotFound(t *testing.T) {
	svc := &fakeAssistService{
		assistFunc: func(_ context.Context, _ *dto.AssistRequest) (*dto.AssistResponse, error) {
			return nil, apperrors.ErrAudioNotFound
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doJSON(t, router, http.MethodPost, "/api/v1/assist", map[string]string{
		"message":    "what was said?",
		"audio_path": "missing.mp3",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "not_found", apiErr["kind"])
}

func TestAssistLLMUnavailable(t *testing.T) {
	svc := &fakeAssistService{
		assistFunc: func(_ context.Context, _ *dto.AssistRequest) (*dto.AssistResponse, error) {
			return nil, apierrors.NewUnavailableError("error connecting to LLM at http://llm:8080/v1")
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doJSON(t, router, http.MethodPost, "/api/v1/assist", map[string]string{
		"message": "hi",
	})

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "unavailable", apiErr["kind"])
	assert.Contains(t, apiErr["message"], "error connecting to LLM at http://llm:8080/v1")
}

func TestLegacyAskJokeShape(t *testing.T) {
	svc := &fakeAssistService{
		assistFunc: func(_ context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error) {
			assert.Equal(t, "tell me a joke", req.Message)
			return &dto.AssistResponse{Reply: "a pun"}, nil
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doGet(t, router, "/rapid/exampleai?message=tell+me+a+joke")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"joke": "a pun"}`, w.Body.String())
}

func TestLegacyAskRequiresMessage(t *testing.T) {
	svc := &fakeAssistService{}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doGet(t, router, "/rapid/exampleai")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "validation", apiErr["kind"])
}

func TestLegacyAskRejectsBadFormat(t *testing.T) {
	svc := &fakeAssistService{}
	router := newRouter(t, &v1routes.ServiceContainer{AssistService: svc})

	w := doGet(t, router, "/rapid/exampleai?message=hi&format=xml")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "validation", apiErr["kind"])
}
