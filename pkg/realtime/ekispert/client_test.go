package ekispert

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleBusPayload = `{
	"ResultSet": {
		"Bus": {
			"Trip": {"tripId": "T100", "operationLineCode": "L1"},
			"Stop": [
				{"fromCode": "A", "toCode": "B", "departure": "07:05", "arrival": "07:15", "delay": 5},
				{"from": "B", "to": "C", "status": "cancelled"}
			]
		}
	}
}`

const busListPayload = `{
	"ResultSet": {
		"Bus": [
			{"TripID": "T200", "status": "cancelled", "Stop": {"from_stop": "C", "to_stop": "D"}},
			{"id": "T300", "Stop": [{"fromCode": "D", "toCode": "E", "departure": 500, "arrival": 510}]},
			{"Stop": [{"fromCode": "X", "toCode": "Y"}]}
		]
	}
}`

func TestParsePayloadSingleBus(t *testing.T) {
	assert := assert.New(t)

	patches, err := ParsePayload([]byte(singleBusPayload))
	require.NoError(t, err)

	assert.Equal([]realtime.Patch{
		{TripID: "T100", FromCode: "A", ToCode: "B", HasTimes: true, Depart: 425, Arrive: 435, DelayMinutes: 5},
		{TripID: "T100", FromCode: "B", ToCode: "C", Status: "cancelled"},
	}, patches)
}

func TestParsePayloadBusList(t *testing.T) {
	assert := assert.New(t)

	patches, err := ParsePayload([]byte(busListPayload))
	require.NoError(t, err)

	assert.Equal([]realtime.Patch{
		{TripID: "T200", FromCode: "C", ToCode: "D", Status: "cancelled"},
		{TripID: "T300", FromCode: "D", ToCode: "E", HasTimes: true, Depart: 500, Arrive: 510},
	}, patches)
	assert.True(patches[0].Cancelled())
}

func TestParsePayloadInvalid(t *testing.T) {
	_, err := ParsePayload([]byte("not json"))
	assert.Error(t, err)
}

func testClient(url string) *Client {
	client := NewClient("secret")
	client.BaseURL = url
	client.InitialBackoff = time.Millisecond
	return client
}

func TestClientRetriesServerErrors(t *testing.T) {
	assert := assert.New(t)

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(TripEndpoint, r.URL.Path)
		assert.Equal("secret", r.URL.Query().Get("key"))
		assert.Equal("L1", r.URL.Query().Get("line_id"))

		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(singleBusPayload))
	}))
	defer server.Close()

	patches, err := testClient(server.URL).Fetch(context.Background(), []realtime.TripQuery{
		{LineID: "L1", TripID: "T100"},
		{LineID: "L1", TripID: "T101"},
	})

	require.NoError(t, err)
	assert.Len(patches, 2)
	assert.Equal(int32(2), requests.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Fetch(context.Background(), []realtime.TripQuery{{LineID: "L1"}})

	assert.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Fetch(context.Background(), []realtime.TripQuery{{LineID: "L1"}})

	assert.Error(t, err)
	assert.Equal(t, int32(DefaultMaxRetries+1), requests.Load())
}

func TestClientRequestsEachLineOnce(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"ResultSet": {}}`))
	}))
	defer server.Close()

	patches, err := testClient(server.URL).Fetch(context.Background(), []realtime.TripQuery{
		{LineID: "L1", TripID: "a"},
		{LineID: "L2", TripID: "b"},
		{LineID: "L1", TripID: "c"},
	})

	require.NoError(t, err)
	assert.Empty(t, patches)
	assert.Equal(t, int32(2), requests.Load())
}

func TestClientWithoutKey(t *testing.T) {
	_, err := NewClient("").Fetch(context.Background(), []realtime.TripQuery{{LineID: "L1"}})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
