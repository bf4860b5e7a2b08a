package media_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/media"
	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 20, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	case "gif":
		require.NoError(t, gif.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	p := media.Processor{MaxBytes: 1 << 20, MaxDimension: 64}

	tests := []struct {
		name         string
		data         []byte
		wantW, wantH int
	}{
		{"small png kept", encode(t, "png", solid(32, 16)), 32, 16},
		{"wide jpeg scaled", encode(t, "jpeg", solid(256, 128)), 64, 32},
		{"tall gif scaled", encode(t, "gif", solid(50, 200)), 16, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Normalize(bytes.NewReader(tt.data))
			require.NoError(t, err)

			img, format, err := image.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, "png", format)
			require.Equal(t, tt.wantW, img.Bounds().Dx())
			require.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	p := media.Processor{MaxBytes: 512, MaxDimension: 64}

	_, err := p.Normalize(bytes.NewReader([]byte("definitely not an image")))
	require.ErrorIs(t, err, media.ErrUnsupportedFormat)

	_, err = p.Normalize(bytes.NewReader(make([]byte, 4096)))
	require.ErrorIs(t, err, media.ErrTooLarge)
}

func TestAvatarKeys(t *testing.T) {
	id := idx.New().String()
	key := media.NewAvatarKey(id)
	require.True(t, media.ValidKey(key))

	for _, bad := range []string{"", "avatars/../../etc/passwd", "avatars/" + id + "/x.png", "other/" + id + "/" + idx.New().String() + ".png"} {
		require.False(t, media.ValidKey(bad), bad)
	}
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	st, err := media.NewFSStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Ping(ctx))

	key := media.NewAvatarKey(idx.New().String())
	require.NoError(t, st.Put(ctx, key, []byte("png-bytes"), media.ContentTypePNG))

	rc, err := st.Get(ctx, key)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "png-bytes", string(b))

	require.NoError(t, st.Delete(ctx, key))
	require.NoError(t, st.Delete(ctx, key))

	_, err = st.Get(ctx, key)
	require.ErrorIs(t, err, media.ErrNotFound)

	_, err = st.Get(ctx, "avatars/../secret")
	require.ErrorIs(t, err, media.ErrNotFound)
}
