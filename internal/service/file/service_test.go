package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func noisyImage(side int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			img.Set(x, y, color.RGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}
	return img
}

// inRange grows a noisy image until encode produces a file between the proof size limits.
func inRange(t *testing.T, encode func(io.Writer, image.Image) error) []byte {
	t.Helper()
	for side := 64; side <= 512; side += 8 {
		var buf bytes.Buffer
		require.NoError(t, encode(&buf, noisyImage(side)))
		if buf.Len() >= proofMinSize {
			require.LessOrEqual(t, buf.Len(), proofMaxSize)
			return buf.Bytes()
		}
	}
	t.Fatal("no image size landed in the proof size range")
	return nil
}

func newTestFileService(t *testing.T) FileService {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewFileService(local)
}

func readStored(t *testing.T, svc FileService, key string) []byte {
	t.Helper()
	rc, err := svc.OpenFile(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	return stored
}

func TestUploadAttendanceProof(t *testing.T) {
	ctx := context.Background()
	svc := newTestFileService(t)

	date := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	key, err := svc.UploadAttendanceProof(ctx, "emp-1", date, bytes.NewReader(samplePNG(t)), "selfie.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "attendance/emp-1/2025-03-10/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.Equal(t, "image/jpeg", http.DetectContentType(readStored(t, svc, key)))

	require.NoError(t, svc.DeleteFile(ctx, key))
	_, err = svc.OpenFile(ctx, key)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestUploadAttendanceProof_ReencodesMidSizePNG(t *testing.T) {
	svc := newTestFileService(t)
	upload := inRange(t, png.Encode)

	key, err := svc.UploadAttendanceProof(context.Background(), "emp-1", time.Now(), bytes.NewReader(upload), "selfie.png")
	require.NoError(t, err)

	stored := readStored(t, svc, key)
	assert.Equal(t, "image/jpeg", http.DetectContentType(stored))
	_, format, err := image.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestUploadAttendanceProof_KeepsMidSizeJPEG(t *testing.T) {
	svc := newTestFileService(t)
	upload := inRange(t, func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 75})
	})

	key, err := svc.UploadAttendanceProof(context.Background(), "emp-1", time.Now(), bytes.NewReader(upload), "selfie.jpg")
	require.NoError(t, err)
	assert.Equal(t, upload, readStored(t, svc, key))
}

func TestUploadAttendanceProof_RejectsUnknownExtension(t *testing.T) {
	_, err := newTestFileService(t).UploadAttendanceProof(context.Background(), "emp-1", time.Now(), strings.NewReader("%PDF"), "proof.pdf")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadAttendanceProof_RejectsUndecodableImage(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xff}, 60*1024)
	_, err := newTestFileService(t).UploadAttendanceProof(context.Background(), "emp-1", time.Now(), bytes.NewReader(garbage), "proof.jpg")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}
