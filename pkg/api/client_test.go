package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// MockHTTPClient implements HTTPClient for testing.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (mockClient *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return mockClient.DoFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// newTestClient creates a Client without rate limiting or caching.
func newTestClient(baseURL string, httpClient HTTPClient) *Client {
	return NewClient(Config{BaseURL: baseURL, HTTPClient: httpClient})
}

const sampleLegislaturesJSON = `[
  {"numero": "XV", "designacao": "XV Legislatura", "data_inicio": "2022-03-29", "data_fim": "2024-03-25"},
  {"numero": "XVII", "designacao": "XVII Legislatura", "data_inicio": "2025-06-03", "data_fim": null},
  {"numero": "XVI", "designacao": "XVI Legislatura", "data_inicio": "2024-03-26", "data_fim": "2025-06-02"}
]`

const sampleDeputiesJSON = `{
  "data": [
    {"id": 101, "nome": "Ana Sousa", "partido": "PS", "circulo": "Lisboa", "legislatura": "xvii", "ativo": true},
    {"id": "102", "nome": "Bruno Reis", "partido": "PSD", "circulo": "Porto"}
  ],
  "paginacao": {"pagina": 2, "por_pagina": 2, "total": 230}
}`

const sampleVotesJSON = `[
  {"id": 9, "data": "2025-07-10", "descricao": "Proposta de Lei 12/XVII", "resultado": "Aprovado",
   "votos": [
     {"deputado_id": 101, "partido": "PS", "voto": "favor"},
     {"deputado_id": 103, "partido": "PS", "voto": "Abstenção"},
     {"deputado_id": 102, "partido": "PSD", "voto": "contra"}
   ]},
  {"id": 8, "data": "2025-06-20", "descricao": "Voto de pesar", "resultado": "Aprovado",
   "partidos": {"PS": {"favor": 70, "contra": 0, "abstencao": 0, "ausente": 8}}}
]`

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/legislaturas", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleLegislaturesJSON)
	})
	mux.HandleFunc("/api/deputados", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("legislatura") != "XVII" || r.URL.Query().Get("pagina") != "2" {
			http.Error(w, `{"error": "bad query"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, sampleDeputiesJSON)
	})
	mux.HandleFunc("/api/deputados/101/historico", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"mandatos": [{"legislatura": "XVI", "fim": "2025-06-02"}, {"legislatura": "XVII", "em_curso": true}]}`)
	})
	mux.HandleFunc("/api/deputados/101", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"id": 101, "nome": "Ana Sousa", "partido": "PS", "circulo": "Lisboa",
		  "mandatos": [{"legislatura": "XVI", "partido": "PS", "circulo": "Lisboa", "inicio": "2024-03-26", "fim": "2025-06-02"}]}}`)
	})
	mux.HandleFunc("/api/partidos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [{"sigla": "PS", "nome": "Partido Socialista", "deputados": 58}, {"sigla": "L", "nome": "Livre", "deputados": 6}]}`)
	})
	mux.HandleFunc("/api/partidos/PS", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sigla": "PS", "nome": "Partido Socialista", "membros": [{"id": 101, "nome": "Ana Sousa"}]}`)
	})
	mux.HandleFunc("/api/votacoes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleVotesJSON)
	})
	mux.HandleFunc("/api/coligacoes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"nome": "Aliança Democrática", "sigla": "AD", "partidos": ["PSD", "CDS-PP"]}]`)
	})
	mux.HandleFunc("/api/transparencia", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"deputado_id": 101, "nome": "Ana Sousa", "partido": "PS", "presencas": 90, "faltas": 10, "faltas_justificadas": 8, "intervencoes": 12, "perguntas": 3, "declaracao_interesses": true}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientLegislatures(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	records, err := client.Legislatures(context.Background())
	if err != nil {
		t.Fatalf("Legislatures failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].Ordinal != "XVII" || records[1].EndDate != nil {
		t.Errorf("records[1] = %+v, want open XVII", records[1])
	}
}

func TestClientDeputyHistory(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	records, err := client.DeputyHistory(context.Background(), "101")
	if err != nil {
		t.Fatalf("DeputyHistory failed: %v", err)
	}
	if len(records) != 2 || records[1].Ordinal != "XVII" {
		t.Fatalf("unexpected history: %+v", records)
	}
	if records[1].IsCurrent == nil || !*records[1].IsCurrent {
		t.Error("em_curso not mapped to IsCurrent")
	}
}

func TestClientDeputiesPagination(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	page, err := client.Deputies(context.Background(), DeputyQuery{Legislature: "XVII", Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Deputies failed: %v", err)
	}
	if page.Total != 230 || page.Page != 2 || page.PerPage != 2 {
		t.Errorf("pagination = %d/%d/%d, want 2/2/230", page.Page, page.PerPage, page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 deputies, got %d", len(page.Items))
	}

	ana := page.Items[0]
	if ana.ID != "101" || ana.Legislature != "XVII" || !ana.Active {
		t.Errorf("numeric id / legislature / active not normalised: %+v", ana)
	}
	if page.Items[1].ID != "102" || !page.Items[1].Active {
		t.Errorf("string id or default active wrong: %+v", page.Items[1])
	}
}

func TestClientDeputyAndParty(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	deputy, err := client.Deputy(context.Background(), "101")
	if err != nil {
		t.Fatalf("Deputy failed: %v", err)
	}
	if deputy.Name != "Ana Sousa" || len(deputy.Mandates) != 1 {
		t.Fatalf("unexpected deputy: %+v", deputy)
	}
	if deputy.Mandates[0].End == nil {
		t.Error("mandate end date not parsed")
	}

	party, err := client.Party(context.Background(), "PS", "XVII")
	if err != nil {
		t.Fatalf("Party failed: %v", err)
	}
	if party.Acronym != "PS" || party.Seats != 1 || len(party.Deputies) != 1 {
		t.Errorf("unexpected party detail: %+v", party)
	}

	parties, err := client.Parties(context.Background(), "XVII")
	if err != nil {
		t.Fatalf("Parties failed: %v", err)
	}
	if len(parties) != 2 || parties[0].Seats != 58 {
		t.Errorf("unexpected parties: %+v", parties)
	}
}

func TestClientVotes(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	votes, err := client.Votes(context.Background(), "XVII", "")
	if err != nil {
		t.Fatalf("Votes failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(votes))
	}
	if votes[0].ID != "8" {
		t.Errorf("votes not sorted oldest first: first id %q", votes[0].ID)
	}

	latest := votes[1]
	if latest.Ballots[1].Position != PositionAbstencao {
		t.Errorf("accented position parsed as %q", latest.Ballots[1].Position)
	}
	ps := latest.Parties["PS"]
	if ps.Favor != 1 || ps.Abstencao != 1 {
		t.Errorf("tallies not rebuilt from ballots: %+v", ps)
	}
	if votes[0].Parties["PS"].Ausente != 8 {
		t.Errorf("explicit tallies lost: %+v", votes[0].Parties["PS"])
	}
}

func TestClientCoalitionsAndTransparency(t *testing.T) {
	server := newBackend(t)
	client := newTestClient(server.URL, server.Client())

	coalitions, err := client.Coalitions(context.Background(), "XVII")
	if err != nil {
		t.Fatalf("Coalitions failed: %v", err)
	}
	if len(coalitions) != 1 || len(coalitions[0].Parties) != 2 {
		t.Errorf("unexpected coalitions: %+v", coalitions)
	}

	records, err := client.Transparency(context.Background(), "XVII")
	if err != nil {
		t.Fatalf("Transparency failed: %v", err)
	}
	if len(records) != 1 || records[0].Present != 90 || !records[0].InterestDeclaration {
		t.Errorf("unexpected transparency records: %+v", records)
	}
}

func TestClientErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		response func() (*http.Response, error)
		check    func(t *testing.T, err error)
		describe string
	}{
		{
			name:     "transport failure",
			response: func() (*http.Response, error) { return nil, fmt.Errorf("connection refused") },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrTransport) {
					t.Errorf("expected ErrTransport, got %v", err)
				}
			},
			describe: "could not reach the server",
		},
		{
			name:     "non-success status",
			response: func() (*http.Response, error) { return jsonResponse(http.StatusBadGateway, "bad gateway"), nil },
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadGateway {
					t.Errorf("expected StatusError 502, got %v", err)
				}
			},
			describe: "server responded with HTTP 502",
		},
		{
			name:     "application error payload",
			response: func() (*http.Response, error) { return jsonResponse(http.StatusOK, `{"error": "legislatura inválida"}`), nil },
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Errorf("expected APIError, got %v", err)
				}
			},
			describe: "legislatura inválida",
		},
		{
			name:     "unsuccessful flag",
			response: func() (*http.Response, error) { return jsonResponse(http.StatusOK, `{"success": false, "message": "sem dados"}`), nil },
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "sem dados" {
					t.Errorf("expected APIError 'sem dados', got %v", err)
				}
			},
			describe: "sem dados",
		},
		{
			name:     "empty body",
			response: func() (*http.Response, error) { return jsonResponse(http.StatusOK, "  "), nil },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmpty) {
					t.Errorf("expected ErrEmpty, got %v", err)
				}
			},
			describe: "no data available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
				return tt.response()
			}}
			client := newTestClient("http://backend.test", mockClient)

			_, err := client.Legislatures(context.Background())
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
			if got := Describe(err); got != tt.describe {
				t.Errorf("Describe = %q, want %q", got, tt.describe)
			}
		})
	}
}

func TestClientSendsHeaders(t *testing.T) {
	var captured *http.Request
	mockClient := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, "[]"), nil
	}}

	client := NewClient(Config{BaseURL: "http://backend.test/", HTTPClient: mockClient, UserAgent: "test-agent"})
	if _, err := client.Parties(context.Background(), "XVII"); err != nil {
		t.Fatalf("Parties failed: %v", err)
	}

	if captured.Header.Get("User-Agent") != "test-agent" {
		t.Errorf("User-Agent = %q", captured.Header.Get("User-Agent"))
	}
	if captured.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	if captured.URL.String() != "http://backend.test/api/partidos?legislatura=XVII" {
		t.Errorf("URL = %q", captured.URL.String())
	}
}

func TestClientCachesSuccessfulResponses(t *testing.T) {
	var requestCount atomic.Int32
	mockClient := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		requestCount.Add(1)
		return jsonResponse(http.StatusOK, sampleLegislaturesJSON), nil
	}}

	client := NewClient(Config{BaseURL: "http://backend.test", HTTPClient: mockClient, CacheTTL: time.Hour})
	for i := 0; i < 3; i++ {
		if _, err := client.Legislatures(context.Background()); err != nil {
			t.Fatalf("Legislatures failed: %v", err)
		}
	}
	if requestCount.Load() != 1 {
		t.Errorf("expected 1 HTTP request, got %d", requestCount.Load())
	}

	client.InvalidateCache()
	if _, err := client.Legislatures(context.Background()); err != nil {
		t.Fatalf("Legislatures failed: %v", err)
	}
	if requestCount.Load() != 2 {
		t.Errorf("expected a fresh request after invalidation, got %d", requestCount.Load())
	}
}

func TestClientDoesNotCacheFailures(t *testing.T) {
	var requestCount atomic.Int32
	mockClient := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		if requestCount.Add(1) == 1 {
			return jsonResponse(http.StatusServiceUnavailable, ""), nil
		}
		return jsonResponse(http.StatusOK, sampleLegislaturesJSON), nil
	}}

	client := NewClient(Config{BaseURL: "http://backend.test", HTTPClient: mockClient, CacheTTL: time.Hour})
	if _, err := client.Legislatures(context.Background()); err == nil {
		t.Fatal("expected first call to fail")
	}
	records, err := client.Legislatures(context.Background())
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestClientCancelledContext(t *testing.T) {
	mockClient := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	}}
	client := newTestClient("http://backend.test", mockClient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Legislatures(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if Describe(err) != "request cancelled" {
		t.Errorf("Describe = %q", Describe(err))
	}
}
