package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

func TestStreamDelivery(t *testing.T) {
	env := setupTestServer(t)
	base := env.server.URL + "/api/v1"

	sseResp, err := http.Get(base + "/users/u1/stream")
	require.NoError(t, err)
	defer func() { _ = sseResp.Body.Close() }()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)
	require.Equal(t, "text/event-stream", sseResp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool {
		return env.hub.IsOnline("u1")
	}, 2*time.Second, 10*time.Millisecond)

	resp := postJSON(t, base+"/users/u1/notifications", map[string]any{
		"kind":    domain.KindDirect,
		"payload": map[string]any{"text": "live"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Notification](t, resp)

	data, err := readSSEData(sseResp.Body, 2*time.Second)
	require.NoError(t, err)

	var got model.Envelope
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "u1", got.RecipientID)
	require.Equal(t, "live", got.Payload["text"])
	require.True(t, got.IsNew)
}

func TestStreamRoleTopics(t *testing.T) {
	env := setupTestServer(t)
	base := env.server.URL + "/api/v1"

	sseResp, err := http.Get(base + "/users/u2/stream?role=student")
	require.NoError(t, err)
	defer func() { _ = sseResp.Body.Close() }()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)

	require.Eventually(t, func() bool {
		return env.hub.IsOnline("u2")
	}, 2*time.Second, 10*time.Millisecond)

	resp := postJSON(t, base+"/events/announcement", map[string]any{
		"data":  map[string]any{"title": "exam schedule"},
		"roles": []string{"student"},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	data, err := readSSEData(sseResp.Body, 2*time.Second)
	require.NoError(t, err)

	var got model.Envelope
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, domain.KindAnnouncement, got.Kind)
	require.Equal(t, "exam schedule", got.Payload["title"])
}

func TestStreamGroupTopics(t *testing.T) {
	env := setupTestServer(t)
	base := env.server.URL + "/api/v1"

	env.store.SeedGroup("g1", "u3")

	sseResp, err := http.Get(base + "/users/u3/stream")
	require.NoError(t, err)
	defer func() { _ = sseResp.Body.Close() }()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)

	require.Eventually(t, func() bool {
		return env.hub.IsOnline("u3")
	}, 2*time.Second, 10*time.Millisecond)

	resp := postJSON(t, base+"/events/study-group", map[string]any{
		"group_id":   "g1",
		"event_type": domain.EventUpdate,
		"data":       map[string]any{"title": "session moved"},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	data, err := readSSEData(sseResp.Body, 2*time.Second)
	require.NoError(t, err)

	var got model.Envelope
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, "session moved", got.Payload["title"])
}

func readSSEData(body io.Reader, timeout time.Duration) (string, error) {
	reader := bufio.NewReader(body)
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", context.DeadlineExceeded
	}
}
