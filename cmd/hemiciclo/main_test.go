package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/legislaturas", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
		  {"numero": "XVI", "data_inicio": "2024-03-26", "data_fim": "2025-06-02"},
		  {"numero": "XVII", "data_inicio": "2025-06-03", "data_fim": null}
		]`)
	})
	mux.HandleFunc("/api/partidos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [{"sigla": "PS", "nome": "Partido Socialista", "deputados": 58}, {"sigla": "L", "nome": "Livre", "deputados": 6}]}`)
	})
	mux.HandleFunc("/api/deputados", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
		  {"id": 101, "nome": "Ana Sousa", "partido": "PS", "circulo": "Lisboa"},
		  {"id": 102, "nome": "João Gonçalves", "partido": "L", "circulo": "Porto"}
		], "paginacao": {"pagina": 1, "por_pagina": 100, "total": 2}}`)
	})
	mux.HandleFunc("/api/votacoes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
		  {"id": 1, "data": "2025-07-10", "partidos": {"PS": {"favor": 50, "contra": 0, "abstencao": 0, "ausente": 8}, "L": {"favor": 6}}},
		  {"id": 2, "data": "2025-07-11", "partidos": {"PS": {"favor": 0, "contra": 40, "abstencao": 10, "ausente": 8}, "L": {"favor": 6}}}
		]`)
	})
	mux.HandleFunc("/api/coligacoes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/api/transparencia", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
		  {"deputado_id": 101, "nome": "Ana Sousa", "partido": "PS", "presencas": 90, "faltas": 10, "declaracao_interesses": true},
		  {"deputado_id": 102, "nome": "João Gonçalves", "partido": "L", "presencas": 95, "faltas": 5}
		]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// run executes the CLI against the fake backend and returns stdout.
func run(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("api:\n  rate_limit: 0s\n  cache_ttl: 0s\n"), 0644))

	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", configFile,
		"--api-url", server.URL,
		"--log-file", filepath.Join(dir, "hemiciclo.log"),
	}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestLegislaturesMarksDefault(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "legislatures")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[2], "* XVII"), "first row should be the starred XVII, got %q", lines[2])
	assert.Contains(t, out, "2 legislature(s)")
}

func TestLegislaturesJSONOrdered(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "legislatures", "--json")
	require.NoError(t, err)

	var records []legislature.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "XVII", records[0].Ordinal)
	assert.Equal(t, "XVI", records[1].Ordinal)
}

func TestPartiesUsesDefaultLegislature(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "parties")
	require.NoError(t, err)
	assert.Contains(t, out, "Legislature XVII")
	assert.Contains(t, out, "Partido Socialista")
	assert.Contains(t, out, "2 party(ies), 64 seat(s)")
}

func TestDecimalLegislatureFlagIsNormalized(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "parties", "--legislature", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "Legislature XVI")
}

func TestDeputiesAccentInsensitiveSearch(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "deputies", "--query", "goncalves")
	require.NoError(t, err)
	assert.Contains(t, out, "João Gonçalves")
	assert.NotContains(t, out, "Ana Sousa")
}

func TestDistrictsGroupsDeputies(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "districts")
	require.NoError(t, err)
	assert.Contains(t, out, "Lisboa")
	assert.Contains(t, out, "Porto")
	assert.Contains(t, out, "2 district(s), 2 deputies")
}

func TestAgreementCSV(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "agreement", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Party,L,PS\n"), "unexpected CSV: %q", out)
	assert.Contains(t, out, "L,-,0.500")
}

func TestAgreementRejectsUnknownFormat(t *testing.T) {
	server := newFakeBackend(t)

	_, err := run(t, server, "agreement", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestCohesionForParty(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "cohesion", "--party", "ps", "--legislature", "XVII")
	require.NoError(t, err)
	// 50/50 on the first vote, 40/50 on the second.
	assert.Contains(t, out, "PS cohesion in legislature XVII: 90.0%")
	assert.Contains(t, out, "2025-07")
}

func TestTransparencyMarkdown(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "transparency", "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Relatório de Transparência · XVII Legislatura")
	assert.Contains(t, out, "João Gonçalves")
}

func TestSummaryReportsEmptySection(t *testing.T) {
	server := newFakeBackend(t)

	out, err := run(t, server, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Legislature: XVII")
	assert.Contains(t, out, "no data available")
	assert.Contains(t, out, "2 deputies")
}

func TestSnapshotWritesDatabase(t *testing.T) {
	server := newFakeBackend(t)
	dbPath := filepath.Join(t.TempDir(), "snap.db")

	out, err := run(t, server, "snapshot", "--out", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "of legislature XVII written to")
	assert.FileExists(t, dbPath)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	server := newFakeBackend(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := run(t, server, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run(t, server, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, server, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Assembl...", truncateString("Assembleia da República", 10))
	assert.Equal(t, "Çã", truncateString("Çãoxyz", 2))
}
