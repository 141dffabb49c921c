package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Sizes(t *testing.T) {
	sc := smallScene()

	assert.Equal(t, 200, Snapshot(sc, 0, 0).Bounds().Dx())
	assert.Equal(t, 100, Snapshot(sc, 0, 0).Bounds().Dy())
	assert.Equal(t, 50, Snapshot(sc, 100, 0).Bounds().Dy())
	assert.Equal(t, 80, Snapshot(sc, 0, 40).Bounds().Dx())
	assert.Equal(t, 30, Snapshot(sc, 70, 30).Bounds().Dy())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, smallScene(), 0, 0))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	r, g, b, _ := img.At(100, 50).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}
