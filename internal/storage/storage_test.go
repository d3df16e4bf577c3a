package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	got := normalizeFilename("relevé été 2024.csv")
	assert.True(t, strings.HasPrefix(got, "relev_t_2024_"), got)
	assert.True(t, strings.HasSuffix(got, ".csv"), got)

	assert.True(t, strings.HasPrefix(normalizeFilename("@@@.pdf"), "file_"))
}

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/exports")

	url, err := s.Save(context.Background(), "temperatures.csv", "text/csv", []byte("Date;Heure\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/exports/temperatures_"), url)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "Date;Heure\n", string(data))
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestSpacesStorageSave(t *testing.T) {
	client := &fakeS3{}
	s := newSpacesStorage(client, "boreas", "https://cdn.example.com/")

	url, err := s.Save(context.Background(), "report.pdf", "", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/exports/report_"), url)
	assert.Equal(t, "boreas", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "application/pdf", aws.StringValue(client.input.ContentType))
	assert.Equal(t, "%PDF-1.3", string(client.body))
}
