package models

// MetadataTag is one decoded EXIF field.
type MetadataTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetadataGroup is a named section of related tags.
type MetadataGroup struct {
	Name string        `json:"name"`
	Tags []MetadataTag `json:"tags"`
}

// ImageMetadata is the grouped metadata extracted from one image.
type ImageMetadata struct {
	FileName string          `json:"file_name"`
	Size     int64           `json:"size"`
	TagCount int             `json:"tag_count"`
	Groups   []MetadataGroup `json:"groups"`
}
