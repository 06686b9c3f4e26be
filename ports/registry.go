package ports

import (
	"hetracker/domain/dataset"
)

// MetadataRegistry describes the datasets the pipeline knows about
type MetadataRegistry interface {
	Get(id string) (*dataset.Metadata, bool)
	List() []*dataset.Metadata
}
