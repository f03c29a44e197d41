package finalize

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a configuration directory under $HOME
	api.DisableConfigDir()
}

// Artifact describes a produced PDF
type Artifact struct {
	Pages int `json:"pages"`
	Size  int `json:"size"`
}

// Inspect validates data as a PDF (relaxed mode) and counts its pages
func Inspect(data []byte) (*Artifact, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, fmt.Errorf("not a PDF document")
	}

	if err := api.Validate(bytes.NewReader(data), newConfiguration()); err != nil {
		return nil, fmt.Errorf("PDF validation failed: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	return &Artifact{
		Pages: pages,
		Size:  len(data),
	}, nil
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
