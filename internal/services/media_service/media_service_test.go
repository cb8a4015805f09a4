package services_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"asteca_portfolio/internal/domain/models"
	services "asteca_portfolio/internal/services/media_service"
	"asteca_portfolio/internal/storage"
	filestorage "asteca_portfolio/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, src io.Reader, filename, subPath string, maxSize int64) (string, int64, error) {
	args := m.Called(ctx, src, filename, subPath, maxSize)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileStorage) Delete(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

func (m *MockFileStorage) GetFullPath(relativePath string) string {
	args := m.Called(relativePath)
	return args.String(0)
}

func (m *MockFileStorage) PublicURL(relativePath string) string {
	args := m.Called(relativePath)
	return args.String(0)
}

func (m *MockFileStorage) GetBaseDir() string {
	args := m.Called()
	return args.String(0)
}

func createTestFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// Парсим multipart запрос
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	return header
}

func TestMediaService_UploadMedia(t *testing.T) {
	ctx := context.Background()

	fs, err := filestorage.NewLocalFileStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	service := services.NewMediaService(slog.Default(), fs, 1024)

	t.Run("png is stored under a unique name", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x01}, 300)...)

		stored, err := service.UploadMedia(ctx, createTestFile(t, "logo.png", content))
		require.NoError(t, err)

		assert.Equal(t, "logo.png", stored.OriginalFilename)
		assert.Equal(t, models.MediaKindImage, stored.Kind)
		assert.Equal(t, "image/png", stored.MimeType)
		assert.True(t, strings.HasPrefix(stored.PublicPath, "/uploads/"))
		assert.True(t, strings.HasSuffix(stored.PublicPath, "_logo.png"))
		assert.Equal(t, int64(len(content)), stored.FileSize)

		data, err := os.ReadFile(fs.GetFullPath(stored.StoragePath))
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("extension not allowed", func(t *testing.T) {
		_, err := service.UploadMedia(ctx, createTestFile(t, "notes.txt", []byte("hello")))
		assert.ErrorIs(t, err, storage.ErrInvalidFileType)
	})

	t.Run("content does not match extension", func(t *testing.T) {
		_, err := service.UploadMedia(ctx, createTestFile(t, "fake.png", []byte("plain text pretending")))
		assert.ErrorIs(t, err, storage.ErrInvalidFileType)

		_, err = service.UploadMedia(ctx, createTestFile(t, "clip.mp4", pngHeader))
		assert.ErrorIs(t, err, storage.ErrInvalidFileType)
	})

	t.Run("too large", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x01}, 2048)...)

		_, err := service.UploadMedia(ctx, createTestFile(t, "big.png", content))
		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	})
}

func TestMediaService_UploadMedia_RemovesInvalidFile(t *testing.T) {
	ctx := context.Background()

	fs := new(MockFileStorage)
	fs.On("Save", ctx, mock.Anything, mock.AnythingOfType("string"), "", int64(0)).
		Return("x_logo.png", int64(0), nil).Once()
	fs.On("PublicURL", "x_logo.png").Return("/uploads/x_logo.png").Once()
	fs.On("Delete", ctx, "x_logo.png").Return(nil).Once()

	service := services.NewMediaService(slog.Default(), fs, 0)

	_, err := service.UploadMedia(ctx, createTestFile(t, "logo.png", pngHeader))

	require.Error(t, err)
	assert.True(t, models.IsMediaValidationError(err))
	fs.AssertExpectations(t)
}
