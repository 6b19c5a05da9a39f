package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

const validInsightJSON = `{
	"bestLevel":{"level":1,"completionRate":75,"analysis":"Level 1 leads."},
	"timeDistribution":{"busiestMonth":"2026-07","quietestMonth":"2026-06","analysis":"July peaked."},
	"urgency":{"urgentCount":1,"recommendations":["Ship it"],"analysis":"One pressing task."},
	"productivityTrend":{"trend":"improving","strengths":["focus"],"improvements":[],"analysis":"Good pace."}
}`

func TestGenerate_RemoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write(chatReply(t, validInsightJSON))
	}))
	defer server.Close()

	g := New(Config{Mode: ModeRemote, APIKey: "test-key", BaseURL: server.URL}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	require.Equal(t, 1, out.BestLevel.Level)
	require.Equal(t, "improving", out.ProductivityTrend.Trend)
}

func TestGenerate_RemoteFencedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, "```json\n"+validInsightJSON+"\n```"))
	}))
	defer server.Close()

	g := New(Config{Mode: ModeRemote, APIKey: "test-key", BaseURL: server.URL}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	require.Equal(t, "2026-07", out.TimeDistribution.BusiestMonth)
}

func TestGenerate_FallsBackOnUnparseableReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, "I cannot produce JSON today."))
	}))
	defer server.Close()

	g := New(Config{Mode: ModeRemote, APIKey: "test-key", BaseURL: server.URL}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	// Local strategy output: argmax over the bundle itself.
	require.Equal(t, localInsights(sampleAnalysis()), out)
}

func TestGenerate_FallsBackOnServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := New(Config{Mode: ModeRemote, APIKey: "test-key", BaseURL: server.URL}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	require.Equal(t, localInsights(sampleAnalysis()), out)
	require.Equal(t, 3, calls) // 5xx is retried before falling back
}

func TestGenerate_LocalMode(t *testing.T) {
	g := New(Config{Mode: ModeLocal}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	require.Equal(t, localInsights(sampleAnalysis()), out)
}

func TestGenerate_RemoteWithoutKeyDegradesToLocal(t *testing.T) {
	g := New(Config{Mode: ModeRemote}, testLogger())
	out, err := g.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	require.Equal(t, localInsights(sampleAnalysis()), out)
}

func TestGenerate_BothStrategiesShareShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, validInsightJSON))
	}))
	defer server.Close()

	remote := New(Config{Mode: ModeRemote, APIKey: "k", BaseURL: server.URL}, testLogger())
	local := New(Config{Mode: ModeLocal}, testLogger())

	remoteOut, err := remote.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	localOut, err := local.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)

	// Marshal both to prove they satisfy the same structural contract.
	remoteJSON, err := json.Marshal(remoteOut)
	require.NoError(t, err)
	localJSON, err := json.Marshal(localOut)
	require.NoError(t, err)

	var remoteShape, localShape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(remoteJSON, &remoteShape))
	require.NoError(t, json.Unmarshal(localJSON, &localShape))
	for _, key := range []string{"bestLevel", "timeDistribution", "urgency", "productivityTrend"} {
		require.Contains(t, remoteShape, key)
		require.Contains(t, localShape, key)
	}
}
