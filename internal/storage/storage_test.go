package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	img, err := DecodeDataURI("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("png-bytes"), img.Data)
	assert.True(t, strings.HasPrefix(img.Key("recipes"), "recipes/"))
	assert.True(t, strings.HasSuffix(img.Key("recipes"), ".png"))
}

func TestDecodeDataURIRejects(t *testing.T) {
	tests := map[string]string{
		"not a data uri":   "https://example.com/cat.png",
		"not base64 flag":  "data:image/png," + "abc",
		"unsupported type": "data:text/plain;base64,aGVsbG8=",
		"bad payload":      "data:image/png;base64,***",
		"empty":            "data:image/png;base64,",
	}
	for name, uri := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURI(uri)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "/media/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "recipes/a.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/a.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "recipes", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	_, err = store.Save(context.Background(), "../escape.png", []byte("data"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3StoreSave(t *testing.T) {
	client := &mockS3{}
	var input *s3.PutObjectInput
	client.On("PutObject", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { input = args.Get(1).(*s3.PutObjectInput) }).
		Return(&s3.PutObjectOutput{}, nil)

	store := NewS3Store(client, "recipes", "")
	url, err := store.Save(context.Background(), "recipes/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://recipes.s3.amazonaws.com/recipes/a.jpg", url)
	client.AssertExpectations(t)

	require.NotNil(t, input)
	assert.Equal(t, "recipes", aws.ToString(input.Bucket))
	assert.Equal(t, "recipes/a.jpg", aws.ToString(input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(input.ContentType))
	body, err := io.ReadAll(input.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(body))
}

func TestS3StoreSaveError(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := NewS3Store(client, "recipes", "https://cdn.example.com").Save(context.Background(), "k", []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
