package bento

import (
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// Image fit modes for a widget's custom image.
const (
	ImageFitCover   = "cover"
	ImageFitContain = "contain"
)

// Widget is a link card placed on the grid. Its id ties it to one item in
// every breakpoint grid.
type Widget struct {
	ID          string    `json:"id" bson:"id"`
	Size        grid.Size `json:"size" bson:"size"`
	URL         string    `json:"url,omitempty" bson:"url,omitempty"`
	CustomTitle string    `json:"customTitle,omitempty" bson:"customTitle,omitempty"`
	CustomImage string    `json:"customImage,omitempty" bson:"customImage,omitempty"`
	CTAText     string    `json:"ctaText,omitempty" bson:"ctaText,omitempty"`
	ImageFit    string    `json:"imageFit,omitempty" bson:"imageFit,omitempty"`
}

// Patch is a partial widget update. Nil fields are left unchanged.
type Patch struct {
	Size        *grid.Size `json:"size,omitempty"`
	URL         *string    `json:"url,omitempty"`
	CustomTitle *string    `json:"customTitle,omitempty"`
	CustomImage *string    `json:"customImage,omitempty"`
	CTAText     *string    `json:"ctaText,omitempty"`
	ImageFit    *string    `json:"imageFit,omitempty"`
}

// Validate checks the fields of p that are set.
func (p Patch) Validate() error {
	if p.Size != nil && !p.Size.Valid() {
		return errors.New(errors.ErrCodeInvalidSize, "unknown widget size %q", *p.Size)
	}
	if p.URL != nil {
		if err := errors.ValidateURL(*p.URL); err != nil {
			return err
		}
	}
	if p.CustomImage != nil {
		if err := errors.ValidateURL(*p.CustomImage); err != nil {
			return err
		}
	}
	if p.ImageFit != nil && !validImageFit(*p.ImageFit) {
		return errors.New(errors.ErrCodeInvalidInput, "image fit must be %q or %q", ImageFitCover, ImageFitContain)
	}
	return nil
}

// Apply returns w with the set fields of p. Size is applied as well;
// keeping the layout in step with it is the caller's job.
func (p Patch) Apply(w Widget) Widget {
	if p.Size != nil {
		w.Size = *p.Size
	}
	if p.URL != nil {
		w.URL = *p.URL
	}
	if p.CustomTitle != nil {
		w.CustomTitle = *p.CustomTitle
	}
	if p.CustomImage != nil {
		w.CustomImage = *p.CustomImage
	}
	if p.CTAText != nil {
		w.CTAText = *p.CTAText
	}
	if p.ImageFit != nil {
		w.ImageFit = *p.ImageFit
	}
	return w
}

func validImageFit(s string) bool {
	return s == "" || s == ImageFitCover || s == ImageFitContain
}
