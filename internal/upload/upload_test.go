package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "citizenhub/internal/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(dir)
	require.NoError(t, err)

	location, err := store.Save(context.Background(), 1001, "leak.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "1001_leak.jpg")), location)

	data, err := os.ReadFile(filepath.Join(dir, "1001_leak.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestLocalSaveStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	location, err := store.Save(context.Background(), 5, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "5_passwd")), location)

	location, err = store.Save(context.Background(), 6, `C:\photos\street.png`, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "6_street.png")), location)
}

func TestLocalSaveRejectsEmptyName(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "  ", "..", "/"} {
		_, err := store.Save(context.Background(), 1, name, strings.NewReader("x"))
		verr, ok := apperrors.AsValidation(err)
		require.True(t, ok, "filename %q: expected validation error, got %v", name, err)
		assert.Equal(t, "image", verr.Field)
	}
}

func TestLocalDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(dir)
	require.NoError(t, err)

	location, err := store.Save(context.Background(), 3, "a.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), location))
	_, statErr := os.Stat(filepath.Join(dir, "3_a.png"))
	assert.True(t, os.IsNotExist(statErr))

	// already gone
	assert.NoError(t, store.Delete(context.Background(), location))
}

func TestLocalDeleteRefusesOutsidePaths(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	victim := filepath.Join(root, "complaints.csv")
	require.NoError(t, os.WriteFile(victim, []byte("keep"), 0o644))

	assert.Error(t, store.Delete(context.Background(), filepath.ToSlash(victim)))
	_, statErr := os.Stat(victim)
	assert.NoError(t, statErr)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalSaveRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), 9, "a.png", failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "9_a.png"))
	assert.True(t, os.IsNotExist(statErr))
}

type fakeS3 struct {
	s3iface.S3API
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	body    string
	err     error
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Save(t *testing.T) {
	client := &fakeS3{}
	store := NewS3WithClient(client, S3Config{Bucket: "citizen", Region: "eu-west-1"})

	url, err := store.Save(context.Background(), 77, "photo.png", strings.NewReader("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://citizen.s3.eu-west-1.amazonaws.com/complaints/77_photo.png", url)
	assert.Equal(t, "complaints/77_photo.png", aws.StringValue(client.input.Key))
	assert.Equal(t, "citizen", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "image/png", aws.StringValue(client.input.ContentType))
	assert.Equal(t, int64(8), aws.Int64Value(client.input.ContentLength))
}

func TestS3SaveCustomEndpoint(t *testing.T) {
	store := NewS3WithClient(&fakeS3{}, S3Config{Bucket: "b", Endpoint: "https://object.example.io/"})

	url, err := store.Save(context.Background(), 1, "x.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://object.example.io/b/complaints/1_x.jpg", url)
}

func TestS3SaveError(t *testing.T) {
	store := NewS3WithClient(&fakeS3{err: errors.New("access denied")}, S3Config{Bucket: "b"})

	_, err := store.Save(context.Background(), 1, "x.jpg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Delete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3WithClient(client, S3Config{Bucket: "citizen", Region: "eu-west-1"})

	url, err := store.Save(context.Background(), 77, "photo.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), url))
	require.NotNil(t, client.deleted)
	assert.Equal(t, "complaints/77_photo.png", aws.StringValue(client.deleted.Key))
	assert.Equal(t, "citizen", aws.StringValue(client.deleted.Bucket))

	assert.Error(t, store.Delete(context.Background(), "https://elsewhere.example/complaints/1_x.png"))
}
