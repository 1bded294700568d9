//go:build integration

package storage

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func startMinio(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-10-13T13-34-11Z",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "clube",
				"MINIO_ROOT_PASSWORD": "clube-secret",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "http")
	require.NoError(t, err)
	return endpoint
}

func TestIntegration_ArchiveRoundTrip(t *testing.T) {
	endpoint := startMinio(t)
	ctx := context.Background()

	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:       "reports",
		AccessKey:    "clube",
		SecretKey:    "clube-secret",
		Endpoint:     endpoint,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))

	key := "reports/tenant/income_statement.pdf"
	require.NoError(t, s.Upload(ctx, key, []byte("%PDF-1.4 test"), "application/pdf"))

	link, _, err := s.GenerateDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	resp, err := http.Get(link)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.4 test", string(body))

	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.Error(t, err)
}
