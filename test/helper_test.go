//go:build integration
// +build integration

package test

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/postgres"
	"github.com/orlangure/gnomock/preset/splunk"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tagfilterdb/querydesk/pkg/cmd"
)

func dummyHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

func createSplunkIngestToken(t *testing.T, client *http.Client, host, port, password string) string {
	splunkURL := fmt.Sprintf("https://%s:%s/servicesNS/admin/splunk_httpinput/data/inputs/http?output_mode=json", host, port)

	req, err := http.NewRequest(http.MethodPost, splunkURL, bytes.NewBufferString(`name=querydesk`))
	require.NoError(t, err)
	req.SetBasicAuth("admin", password)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	response := struct {
		Entry []struct {
			Content struct {
				Token string `json:"token"`
			} `json:"content"`
		} `json:"entry"`
	}{}

	require.NoError(t, json.Unmarshal(respBody, &response))
	require.NotEmpty(t, response.Entry)

	return response.Entry[0].Content.Token
}

func startPostgres(t *testing.T) *gnomock.Container {
	p := postgres.Preset(
		postgres.WithUser("gnomock", "gnomick"),
		postgres.WithDatabase("banking"),
		postgres.WithQueries(
			`CREATE TABLE "User" (id integer PRIMARY KEY, name text, email text)`,
			`INSERT INTO "User" (id, name, email) VALUES (10, 'alice', NULL), (11, 'bob', 'bob@example.com')`,
		),
	)

	psql, err := gnomock.Start(p, gnomock.WithUseLocalImagesFirst())
	require.NoError(t, err)

	t.Cleanup(func() { _ = gnomock.Stop(psql) })

	return psql
}

func startSplunk(t *testing.T, password string) *gnomock.Container {
	s := splunk.Preset(
		splunk.WithVersion("latest"),
		splunk.WithLicense(true),
		splunk.WithPassword(password),
	)

	container, err := gnomock.Start(s, gnomock.WithUseLocalImagesFirst())
	require.NoError(t, err)

	t.Cleanup(func() { _ = gnomock.Stop(container) })

	return container
}

func setEnvironment(t *testing.T, dbHost, dbPort, dbWrite string) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", dbHost)
	t.Setenv("DB_PORT", dbPort)
	t.Setenv("DB_USER", "gnomock")
	t.Setenv("DB_PASS", "gnomick")
	t.Setenv("DB_NAME", "banking")
	t.Setenv("DB_WRITE", dbWrite)

	t.Setenv("SPLUNK_ENDPOINT", "")
}

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// startServe runs the compiler endpoint until the test ends and returns
// its base URL.
func startServe(t *testing.T) string {
	t.Helper()

	port := freePort(t)

	l, err := zap.NewDevelopment()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- cmd.Serve(ctx, l.Sugar(), port) }()

	t.Cleanup(func() {
		cancel()
		<-errs
		_ = l.Sync()
	})

	address := net.JoinHostPort("localhost", strconv.Itoa(port))
	deadline := time.Now().Add(30 * time.Second)
	for {
		conn, err := net.DialTimeout("tcp", address, 500*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			break
		}
		select {
		case err := <-errs:
			t.Fatalf("compiler endpoint exited: %v", err)
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("compiler endpoint did not start on %s", address)
		}
		time.Sleep(100 * time.Millisecond)
	}

	return "http://" + address
}
