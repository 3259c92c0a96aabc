package metadata

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// ifdEntry is one IFD0 field for buildTIFF: either an ASCII string or a SHORT.
type ifdEntry struct {
	tag   uint16
	ascii string
	short uint16
}

// buildTIFF assembles a little-endian TIFF with a single IFD.
func buildTIFF(entries []ifdEntry) []byte {
	le := binary.LittleEndian
	ifdStart := 8
	dataStart := ifdStart + 2 + 12*len(entries) + 4

	var head, data bytes.Buffer
	head.WriteString("II")
	binary.Write(&head, le, uint16(42))
	binary.Write(&head, le, uint32(ifdStart))
	binary.Write(&head, le, uint16(len(entries)))

	for _, e := range entries {
		binary.Write(&head, le, e.tag)
		if e.ascii != "" {
			val := append([]byte(e.ascii), 0)
			binary.Write(&head, le, uint16(2))
			binary.Write(&head, le, uint32(len(val)))
			if len(val) <= 4 {
				padded := make([]byte, 4)
				copy(padded, val)
				head.Write(padded)
			} else {
				binary.Write(&head, le, uint32(dataStart+data.Len()))
				data.Write(val)
			}
			continue
		}
		binary.Write(&head, le, uint16(3))
		binary.Write(&head, le, uint32(1))
		binary.Write(&head, le, e.short)
		binary.Write(&head, le, uint16(0))
	}
	binary.Write(&head, le, uint32(0))

	return append(head.Bytes(), data.Bytes()...)
}

func TestExtract_GroupsAndSorts(t *testing.T) {
	img := buildTIFF([]ifdEntry{
		{tag: 0x0110, ascii: "EOS 5D"},
		{tag: 0x010F, ascii: "Canon"},
		{tag: 0x0112, short: 1},
		{tag: 0x0132, ascii: "2024:03:15 10:30:00"},
	})

	svc := NewService(common.NewSilentLogger())
	meta, err := svc.Extract("photo.tif", bytes.NewReader(img))
	require.NoError(t, err)

	assert.Equal(t, "photo.tif", meta.FileName)
	assert.Equal(t, int64(len(img)), meta.Size)
	assert.Equal(t, 4, meta.TagCount)

	require.Len(t, meta.Groups, 3)
	assert.Equal(t, GroupCamera, meta.Groups[0].Name)
	assert.Equal(t, GroupImage, meta.Groups[1].Name)
	assert.Equal(t, GroupDate, meta.Groups[2].Name)

	camera := meta.Groups[0].Tags
	require.Len(t, camera, 2)
	assert.Equal(t, models.MetadataTag{Name: "Make", Value: "Canon"}, camera[0])
	assert.Equal(t, models.MetadataTag{Name: "Model", Value: "EOS 5D"}, camera[1])

	image := meta.Groups[1].Tags
	require.Len(t, image, 1)
	assert.Equal(t, "Orientation", image[0].Name)
	assert.Contains(t, image[0].Value, "1")

	assert.Equal(t, "2024:03:15 10:30:00", meta.Groups[2].Tags[0].Value)
}

func TestExtract_NoExif(t *testing.T) {
	svc := NewService(common.NewSilentLogger())

	_, err := svc.Extract("notes.txt", strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, models.ErrNoMetadata)

	_, err = svc.Extract("empty.tif", bytes.NewReader(buildTIFF(nil)))
	assert.ErrorIs(t, err, models.ErrNoMetadata)
}

func TestExtract_TooLarge(t *testing.T) {
	svc := NewService(common.NewSilentLogger())
	big := bytes.NewReader(make([]byte, MaxImageSize+1))

	_, err := svc.Extract("huge.jpg", big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestGroupFor(t *testing.T) {
	tests := map[exif.FieldName]string{
		exif.Make:             GroupCamera,
		exif.FNumber:          GroupExposure,
		exif.PixelXDimension:  GroupImage,
		exif.DateTimeOriginal: GroupDate,
		exif.GPSLatitude:      GroupGPS,
		exif.GPSAltitudeRef:   GroupGPS,
		exif.UserComment:      GroupOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, GroupFor(name), "field %s", name)
	}
}
