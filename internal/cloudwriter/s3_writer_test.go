package cloudwriter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	method, path, contentType string
	body                      []byte
}

func fakeS3(t *testing.T) (*S3WriterFactory, *[]upload) {
	t.Helper()
	var uploads []upload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		uploads = append(uploads, upload{r.Method, r.URL.Path, r.Header.Get("Content-Type"), body})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "ap-south-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
	})
	return NewS3WriterFactoryFromClient(client), &uploads
}

func TestS3Writer_UploadsOnClose(t *testing.T) {
	factory, uploads := fakeS3(t)

	w, err := factory.NewWriter(context.Background(), "reports", "dashboards/abc.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"summary":`))
	require.NoError(t, err)
	_, err = w.Write([]byte(`{}}`))
	require.NoError(t, err)
	assert.Empty(t, *uploads, "nothing is sent before Close")

	require.NoError(t, w.Close())
	require.Len(t, *uploads, 1)
	up := (*uploads)[0]
	assert.Equal(t, http.MethodPut, up.method)
	assert.Equal(t, "/reports/dashboards/abc.json", up.path)
	assert.Equal(t, "application/json", up.contentType)
	assert.Equal(t, `{"summary":{}}`, string(up.body))

	// a second Close does not upload again
	require.NoError(t, w.Close())
	assert.Len(t, *uploads, 1)
	_, err = w.Write([]byte("x"))
	assert.Error(t, err)
}

func TestS3WriterFactory_RequiresBucket(t *testing.T) {
	factory, _ := fakeS3(t)
	_, err := factory.NewWriter(context.Background(), "", "a.json")
	assert.Error(t, err)
}
