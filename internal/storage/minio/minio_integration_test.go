package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/trends-service/internal/config"
	"github.com/pribylovaa/trends-service/internal/storage"
)

// Интеграционные тесты поднимают реальный MinIO через testcontainers-go.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

const (
	itRootUser     = "root"
	itRootPassword = "rootpass"
	itBucket       = "reports"
)

func startMinio(t *testing.T) (admin *mclient.Client, endpoint string) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const image = "docker.io/minio/minio:latest"

	req := tc.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"MINIO_ROOT_USER":     itRootUser,
			"MINIO_ROOT_PASSWORD": itRootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting minio container with image=%q", image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	admin, err = mclient.New(host+":"+port.Port(), &mclient.Options{
		Creds:  credentials.NewStaticV4(itRootUser, itRootPassword, ""),
		Secure: false,
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, itBucket, mclient.MakeBucketOptions{Region: "us-east-1"}))

	return admin, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestIntegration_UploadPDF_StoresObjectWithMetadata(t *testing.T) {
	admin, endpoint := startMinio(t)

	u, err := New(config.StorageConfig{
		Bucket:      itBucket,
		EndpointURL: endpoint,
		CDNBaseURL:  "http://cdn.local/",
		AccessKey:   itRootUser,
		SecretKey:   itRootPassword,
	})
	require.NoError(t, err)

	body := []byte("%PDF-1.3 integration")
	public, err := u.UploadPDF(context.Background(), body, "/it/report.pdf", map[string]string{
		"generator": "trends-service",
		"items":     "3",
	})
	require.NoError(t, err)
	require.Equal(t, "http://cdn.local/it/report.pdf", public)

	obj, err := admin.GetObject(context.Background(), itBucket, "it/report.pdf", mclient.GetObjectOptions{})
	require.NoError(t, err)
	defer obj.Close()

	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.Equal(t, body, got)

	st, err := obj.Stat()
	require.NoError(t, err)
	require.Equal(t, "application/pdf", st.ContentType)
	require.Equal(t, "trends-service", st.UserMetadata["Generator"])
}

func TestIntegration_Upload_WrongSecret_ProviderError(t *testing.T) {
	_, endpoint := startMinio(t)

	u, err := New(config.StorageConfig{
		Bucket:      itBucket,
		EndpointURL: endpoint,
		AccessKey:   itRootUser,
		SecretKey:   "wrong-secret",
	})
	require.NoError(t, err)

	_, err = u.UploadPDF(context.Background(), []byte("x"), "", nil)
	require.Error(t, err)

	var pe *storage.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "SignatureDoesNotMatch", pe.Code)
}

func TestIntegration_Upload_MissingBucket_ProviderError(t *testing.T) {
	_, endpoint := startMinio(t)

	u, err := New(config.StorageConfig{
		Bucket:      "no-such-bucket",
		EndpointURL: endpoint,
		AccessKey:   itRootUser,
		SecretKey:   itRootPassword,
	})
	require.NoError(t, err)

	_, err = u.UploadPDF(context.Background(), []byte("x"), "k.pdf", nil)

	var pe *storage.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "NoSuchBucket", pe.Code)
}
