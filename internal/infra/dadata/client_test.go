package dadata

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-catalog-service/internal/config"
	"product-catalog-service/internal/domain"
)

const testEndpoint = "https://suggestions.example.com" + Endpoint

func newTestClient() *Client {
	cfg := config.DaDataConfig{
		BaseURL: "https://suggestions.example.com",
		APIKey:  "secret-key",
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts: 2,
			WaitTime:    50 * time.Millisecond,
			MaxWaitTime: 200 * time.Millisecond,
		},
		CB: config.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())

	// Activate httpmock for this client's HTTP transport
	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func mockPartyResponse() findPartyResponse {
	var s suggestion
	s.Value = "ООО Ромашка"
	s.Data.INN = "1234567890"
	s.Data.Type = "LEGAL"
	s.Data.Name.ShortWithOPF = "ООО Ромашка"

	return findPartyResponse{Suggestions: []suggestion{s}}
}

func TestDaData_FindByINN_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockPartyResponse()))

	client := newTestClient()
	company, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)

	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "1234567890", company.INN)
	assert.Equal(t, "ООО Ромашка", company.Name)
}

func TestDaData_FindByINN_SendsAuthAndBody(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	var gotAuth string
	httpmock.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")

			return httpmock.NewJsonResponse(200, mockPartyResponse())
		})

	client := newTestClient()
	_, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)

	require.NoError(t, err)
	assert.Equal(t, "Token secret-key", gotAuth)
}

func TestDaData_FindByINN_NotFound(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, findPartyResponse{}))

	client := newTestClient()
	company, err := client.FindByINN(context.Background(), "9999999999", domain.PartyLegal)

	require.NoError(t, err)
	assert.Nil(t, company)
}

func TestDaData_FindByINN_HTTPError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"403 Forbidden", 403},
		{"429 Too Many Requests", 429},
		{"500 Internal Server Error", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("POST", testEndpoint,
				httpmock.NewStringResponder(tt.statusCode, "Error"))

			client := newTestClient()
			company, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)

			require.Error(t, err)
			assert.Nil(t, company)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.statusCode))
		})
	}
}

func TestDaData_FindByINN_NetworkError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("network error: connection refused")))

	client := newTestClient()
	company, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)

	require.Error(t, err)
	assert.Nil(t, company)
	assert.Contains(t, err.Error(), "looking up party in dadata")
}

func TestDaData_CircuitBreaker_Opens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newTestClient()

	for i := 0; i < 5; i++ {
		_, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)
		require.Error(t, err)
	}

	start := time.Now()
	_, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Less(t, elapsed.Milliseconds(), int64(100))
}

func TestDaData_Retry_RecoversAfterTransientFailure(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	callCount := 0
	httpmock.RegisterResponder("POST", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			if callCount == 1 {
				return httpmock.NewStringResponse(500, "Server Error"), nil
			}

			return httpmock.NewJsonResponse(200, mockPartyResponse())
		})

	client := newTestClient()
	company, err := client.FindByINN(context.Background(), "1234567890", domain.PartyLegal)

	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, 2, callCount)
}
