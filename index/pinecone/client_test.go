package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docindex/index"
)

func TestNew_Validation(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, ErrHostRequired)

	_, err = New("index.pinecone.io", "")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestNew_NormalizesHost(t *testing.T) {
	client, err := New("my-index.svc.pinecone.io/", "key")
	require.NoError(t, err)
	assert.Equal(t, "https://my-index.svc.pinecone.io", client.host)

	client, err = New("http://localhost:8080", "key")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", client.host)
}

func TestClient_Upsert(t *testing.T) {
	var gotPath, gotKey string
	var gotBody upsertRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(upsertResponse{UpsertedCount: len(gotBody.Vectors)})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret")
	require.NoError(t, err)

	records := []index.Record{
		{ID: "para_p1_0", Values: []float32{1, 2}, Metadata: map[string]string{"text": "alpha"}},
		{ID: "para_p1_1", Values: []float32{3, 4}},
	}
	require.NoError(t, client.Upsert(context.Background(), index.NamespaceParagraphs, records))

	assert.Equal(t, "/vectors/upsert", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, index.NamespaceParagraphs, gotBody.Namespace)
	require.Len(t, gotBody.Vectors, 2)
	assert.Equal(t, "para_p1_0", gotBody.Vectors[0].ID)
	assert.Equal(t, "alpha", gotBody.Vectors[0].Metadata["text"])
}

func TestClient_UpsertEmptyBatchSkipsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := New(server.URL, "secret")
	require.NoError(t, err)

	require.NoError(t, client.Upsert(context.Background(), index.NamespaceParagraphs, nil))
	assert.False(t, called)
}

func TestClient_Query(t *testing.T) {
	var gotBody queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(queryResponse{Matches: []index.Match{
			{ID: "section_p1_42", Score: 0.93, Metadata: map[string]string{"text": "Overview"}},
		}})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret")
	require.NoError(t, err)

	matches, err := client.Query(context.Background(), index.NamespaceSections, []float32{1, 0}, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, gotBody.TopK)
	assert.True(t, gotBody.IncludeMetadata)
	assert.Equal(t, index.NamespaceSections, gotBody.Namespace)
	require.Len(t, matches, 1)
	assert.Equal(t, "section_p1_42", matches[0].ID)
	assert.InDelta(t, 0.93, matches[0].Score, 1e-6)
}

func TestClient_ErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "bad")
	require.NoError(t, err)

	err = client.Upsert(context.Background(), index.NamespaceParagraphs, []index.Record{
		{ID: "para_p1_0", Values: []float32{1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}
