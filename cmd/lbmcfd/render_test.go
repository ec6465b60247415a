package main

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRecorderSaveWritesAnimatedGIF(t *testing.T) {
	rec := newFrameRecorder(8, 4, 2, 2, 5)

	speed := []float64{0.0, 0.1, 0.2, 0.9}
	barrier := []bool{false, false, true, false}
	rec.AddFrame(speed, barrier)
	rec.AddFrame(speed, barrier)

	path := filepath.Join(t.TempDir(), "nested", "out.gif")
	require.NoError(t, rec.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, img.Image, 2)
	assert.Equal(t, []int{5, 5}, img.Delay)
	assert.Equal(t, 8, img.Image[0].Bounds().Dx())
	assert.Equal(t, 4, img.Image[0].Bounds().Dy())
}

func TestFrameRecorderSaveWithNoFramesIsANoOp(t *testing.T) {
	rec := newFrameRecorder(8, 4, 4, 2, 5)
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, rec.Save(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
