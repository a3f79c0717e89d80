// internal/handlers/dialogue_handler_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filipiknow_backend/internal/model"
)

type dialogueBody struct {
	Success bool                 `json:"success"`
	Result  model.DialogueResult `json:"result"`
}

func TestGetDialogue(t *testing.T) {
	clearTables(t)
	seedChapter(t, model.NovelNoliMeTangere, 1)

	url := fmt.Sprintf("/getDialogue?novel=%s&chapter=1&level=3", model.NovelNoliMeTangere)
	rr := executeRequest(createRequest(t, http.MethodGet, url, nil, nil))
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var resp dialogueBody
	decodeBody(t, rr, &resp)
	assert.True(t, resp.Success)

	meta := resp.Result.NovelMetadata
	assert.Equal(t, model.NovelNoliMeTangere, meta.Novel)
	assert.Equal(t, "Noli Me Tangere", meta.NovelTitle)
	assert.Equal(t, 1, meta.ChapterNumber)
	assert.Equal(t, "Kabanata", meta.ChapterTitle)
	require.NotNil(t, meta.Level)
	assert.Equal(t, 3, *meta.Level)

	require.Len(t, resp.Result.Scenes, 1)
	assert.Equal(t, "Simula.", resp.Result.Scenes[0].Line)
}

func TestGetDialogue_QueryValidation(t *testing.T) {
	clearTables(t)
	seedChapter(t, model.NovelNoliMeTangere, 1)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"non-numeric chapter", "/getDialogue?novel=noli_me_tangere&chapter=one", http.StatusBadRequest},
		{"missing chapter", "/getDialogue?novel=noli_me_tangere", http.StatusBadRequest},
		{"non-numeric level", "/getDialogue?novel=noli_me_tangere&chapter=1&level=x", http.StatusBadRequest},
		{"unknown novel", "/getDialogue?novel=ibong_adarna&chapter=1", http.StatusBadRequest},
		{"chapter beyond the novel", "/getDialogue?novel=noli_me_tangere&chapter=65", http.StatusBadRequest},
		{"level beyond the chapter", "/getDialogue?novel=noli_me_tangere&chapter=1&level=11", http.StatusBadRequest},
		{"unauthored chapter", "/getDialogue?novel=noli_me_tangere&chapter=2", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := executeRequest(createRequest(t, http.MethodGet, tt.url, nil, nil))
			assert.Equal(t, tt.want, rr.Code, "body: %s", rr.Body.String())
		})
	}
}

func TestPostDialogue(t *testing.T) {
	clearTables(t)
	seedChapter(t, model.NovelElFilibusterismo, 7)

	body := map[string]interface{}{
		"novel":   model.NovelElFilibusterismo,
		"chapter": 7,
	}
	rr := executeRequest(createRequest(t, http.MethodPost, "/getDialogue", body, nil))
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var resp dialogueBody
	decodeBody(t, rr, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "El Filibusterismo", resp.Result.NovelMetadata.NovelTitle)
	assert.Equal(t, 7, resp.Result.NovelMetadata.ChapterNumber)
	assert.Nil(t, resp.Result.NovelMetadata.Level, "no level requested, none echoed")

	t.Run("malformed body", func(t *testing.T) {
		rr := executeRequest(createRequest(t, http.MethodPost, "/getDialogue", `{"novel":`, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing chapter", func(t *testing.T) {
		rr := executeRequest(createRequest(t, http.MethodPost, "/getDialogue", map[string]interface{}{"novel": "noli_me_tangere"}, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
