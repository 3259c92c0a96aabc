// Package metadata extracts and groups EXIF metadata from uploaded images.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// MaxImageSize is the largest accepted image, in bytes.
const MaxImageSize = 20 << 20

// ErrTooLarge is returned when the image exceeds MaxImageSize.
var ErrTooLarge = errors.New("image exceeds 20 MB limit")

// Display groups, in output order.
const (
	GroupCamera   = "Camera"
	GroupExposure = "Exposure"
	GroupImage    = "Image"
	GroupDate     = "Date"
	GroupGPS      = "GPS"
	GroupOther    = "Other"
)

var groupOrder = []string{GroupCamera, GroupExposure, GroupImage, GroupDate, GroupGPS, GroupOther}

var groupFields = map[string][]string{
	GroupCamera: {
		"Make", "Model", "Software", "LensMake", "LensModel", "Artist", "Copyright",
	},
	GroupExposure: {
		"ExposureTime", "FNumber", "ExposureProgram", "ISOSpeedRatings", "ShutterSpeedValue",
		"ApertureValue", "BrightnessValue", "ExposureBiasValue", "MaxApertureValue", "MeteringMode",
		"LightSource", "Flash", "FocalLength", "FocalLengthIn35mmFilm", "ExposureMode",
		"WhiteBalance", "DigitalZoomRatio", "SceneCaptureType",
	},
	GroupImage: {
		"ImageWidth", "ImageLength", "PixelXDimension", "PixelYDimension", "Orientation",
		"XResolution", "YResolution", "ResolutionUnit", "ColorSpace", "BitsPerSample",
		"Compression", "ImageDescription",
	},
	GroupDate: {
		"DateTime", "DateTimeOriginal", "DateTimeDigitized",
		"SubSecTime", "SubSecTimeOriginal", "SubSecTimeDigitized",
	},
}

var fieldGroups = func() map[exif.FieldName]string {
	m := make(map[exif.FieldName]string)
	for group, fields := range groupFields {
		for _, f := range fields {
			m[exif.FieldName(f)] = group
		}
	}
	return m
}()

// GroupFor returns the display group of an EXIF field.
func GroupFor(name exif.FieldName) string {
	if g, ok := fieldGroups[name]; ok {
		return g
	}
	if strings.HasPrefix(string(name), "GPS") {
		return GroupGPS
	}
	return GroupOther
}

// Service implements MetadataService
type Service struct {
	logger *common.Logger
}

// NewService creates a new metadata service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// collector gathers walked tags into display groups.
type collector struct {
	groups map[string][]models.MetadataTag
	count  int
}

func (c *collector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value := formatTag(tag)
	if value == "" {
		return nil
	}
	g := GroupFor(name)
	c.groups[g] = append(c.groups[g], models.MetadataTag{Name: string(name), Value: value})
	c.count++
	return nil
}

func (c *collector) add(group, name, value string) {
	c.groups[group] = append(c.groups[group], models.MetadataTag{Name: name, Value: value})
	c.count++
}

func formatTag(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(s, "\x00"))
	}
	if tag.Format() == tiff.UndefVal {
		// opaque blobs (maker notes, version bytes) are not shown
		if tag.Count > 16 {
			return ""
		}
	}
	return tag.String()
}

// Extract decodes EXIF metadata from r. Images without EXIF data return
// an error wrapping models.ErrNoMetadata.
func (s *Service) Extract(name string, r io.Reader) (*models.ImageMetadata, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil {
		s.logger.Debug().Str("file", name).Err(err).Msg("No EXIF data")
		return nil, fmt.Errorf("%s: %w", name, models.ErrNoMetadata)
	}
	if err != nil {
		// sub-IFD failures still leave the main tags usable
		s.logger.Debug().Str("file", name).Err(err).Msg("Partial EXIF data")
	}

	c := &collector{groups: make(map[string][]models.MetadataTag)}
	if err := x.Walk(c); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF tags: %w", err)
	}
	if lat, long, err := x.LatLong(); err == nil {
		c.add(GroupGPS, "Latitude", fmt.Sprintf("%.6f", lat))
		c.add(GroupGPS, "Longitude", fmt.Sprintf("%.6f", long))
	}
	if c.count == 0 {
		return nil, fmt.Errorf("%s: %w", name, models.ErrNoMetadata)
	}

	meta := &models.ImageMetadata{
		FileName: name,
		Size:     int64(len(data)),
		TagCount: c.count,
		Groups:   []models.MetadataGroup{},
	}
	for _, g := range groupOrder {
		tags := c.groups[g]
		if len(tags) == 0 {
			continue
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
		meta.Groups = append(meta.Groups, models.MetadataGroup{Name: g, Tags: tags})
	}

	s.logger.Debug().Str("file", name).Int("tags", meta.TagCount).Msg("EXIF metadata extracted")
	return meta, nil
}

// Compile-time check
var _ interfaces.MetadataService = (*Service)(nil)
