package mediastore

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

type fakeClient struct {
	puts    []*s3.PutObjectInput
	deletes []string
	putErr  error
	// deadlineSeen records whether the caller attached a deadline
	deadlineSeen bool
}

func (f *fakeClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	_, f.deadlineSeen = ctx.Deadline()
	f.puts = append(f.puts, in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.Copy(io.Discard, in.Body)
	return &manager.UploadOutput{Key: in.Key}, nil
}

func newTestStore(client *fakeClient, uploader *fakeUploader) *S3Store {
	return &S3Store{
		client:        client,
		uploader:      uploader,
		bucket:        "portfolio",
		region:        "us-east-1",
		publicBaseURL: "https://cdn.test",
		logger:        zerolog.Nop(),
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadSingleModeUsesPutObject(t *testing.T) {
	client := &fakeClient{}
	uploader := &fakeUploader{}
	store := newTestStore(client, uploader)

	data := pngBytes(t, 32, 16)
	desc, err := store.Upload(context.Background(), UploadInput{
		Folder:      "portfolio/projects/p1",
		Filename:    "Screen Shot.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
		Mode:        ModeSingle,
	})
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	assert.Zero(t, uploader.calls)
	assert.True(t, client.deadlineSeen)

	assert.True(t, strings.HasPrefix(desc.StoreID, "portfolio/projects/p1/"))
	assert.True(t, strings.HasSuffix(desc.StoreID, "-Screen-Shot.png"))
	assert.Equal(t, "https://cdn.test/"+desc.StoreID, desc.SecureURL)
	assert.Equal(t, 32, desc.Width)
	assert.Equal(t, 16, desc.Height)
	assert.Equal(t, "png", desc.Format)
	assert.Equal(t, int64(len(data)), desc.Bytes)

	// reading the image header must leave the body rewound
	sent, err := io.ReadAll(client.puts[0].Body)
	require.NoError(t, err)
	assert.Equal(t, data, sent)
}

// unseekable decodes like a file but cannot be rewound.
type unseekable struct {
	*bytes.Reader
}

func (unseekable) Seek(int64, int) (int64, error) {
	return 0, errors.New("seek not supported")
}

func TestUploadFailsWhenBodyCannotRewind(t *testing.T) {
	client := &fakeClient{}
	uploader := &fakeUploader{}
	store := newTestStore(client, uploader)

	data := pngBytes(t, 8, 8)
	_, err := store.Upload(context.Background(), UploadInput{
		Folder:      "portfolio/projects/p1",
		Filename:    "cover.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        unseekable{bytes.NewReader(data)},
		Mode:        ModeSingle,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read cover.png")
	assert.Empty(t, client.puts, "a half-read body must not be sent")
	assert.Zero(t, uploader.calls)
}

func TestUploadStreamingModeUsesMultipartUploader(t *testing.T) {
	client := &fakeClient{}
	uploader := &fakeUploader{}
	store := newTestStore(client, uploader)

	desc, err := store.Upload(context.Background(), UploadInput{
		Folder:      "portfolio/projects/p1",
		Filename:    "demo.mp4",
		ContentType: "video/mp4",
		Size:        40 << 20,
		Body:        strings.NewReader("not really a video"),
		Mode:        ModeStreaming,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploader.calls)
	assert.Empty(t, client.puts)
	assert.Equal(t, "mp4", desc.Format)
	assert.Zero(t, desc.Width)
}

func TestUploadErrorClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "deadline", err: context.DeadlineExceeded, check: errs.IsTimeout},
		{name: "slow down", err: &smithy.GenericAPIError{Code: "SlowDown"}, check: func(err error) bool { return errors.Is(err, errs.ErrQuotaExceeded) }},
		{name: "other", err: errors.New("connection reset"), check: func(err error) bool { return errors.Is(err, errs.ErrUpstream) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(&fakeClient{putErr: tc.err}, &fakeUploader{})
			_, err := store.Upload(context.Background(), UploadInput{
				Folder: "f", Filename: "a.jpg", ContentType: "image/jpeg", Size: 3,
				Body: strings.NewReader("abc"),
			})
			require.Error(t, err)
			assert.True(t, tc.check(err))
			assert.True(t, errs.IsUpstream(err))
		})
	}
}

func TestDeleteUsesStoreID(t *testing.T) {
	client := &fakeClient{}
	store := newTestStore(client, &fakeUploader{})
	require.NoError(t, store.Delete(context.Background(), "portfolio/projects/p1/abc-a.jpg"))
	assert.Equal(t, []string{"portfolio/projects/p1/abc-a.jpg"}, client.deletes)
}

func TestPublicURLFallsBackToBucketHost(t *testing.T) {
	store := newTestStore(&fakeClient{}, &fakeUploader{})
	store.publicBaseURL = ""
	assert.Equal(t, "https://portfolio.s3.us-east-1.amazonaws.com/k", store.publicURL("k"))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":         "photo.jpg",
		"my photo (1).jpg":  "my-photo-1.jpg",
		"../../etc/passwd":  "passwd",
		`C:\Users\me\a.png`: "a.png",
		"ñ":                 "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "jpg", formatOf("a.JPG", "image/jpeg"))
	assert.Equal(t, "webm", formatOf("blob", "video/webm"))
	assert.Equal(t, "svg", formatOf("icon", "image/svg+xml"))
	assert.Equal(t, "", formatOf("blob", ""))
}
