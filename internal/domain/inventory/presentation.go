package inventory

import (
	"strings"
	"time"

	"github.com/erp/inventory/internal/domain/shared"
)

// Presentation describes how a material is packaged (box, sack, liter bottle)
type Presentation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required,max=100"`
	Abbreviation string    `json:"abbreviation,omitempty" validate:"max=10"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPresentation creates a new active presentation draft
func NewPresentation(name, abbreviation string) (Presentation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Presentation{}, shared.NewFieldError("INVALID_NAME", "name", "Presentation name cannot be empty")
	}
	return Presentation{
		Name:         name,
		Abbreviation: strings.ToUpper(strings.TrimSpace(abbreviation)),
		Active:       true,
	}, nil
}

// GetID returns the presentation ID
func (p Presentation) GetID() string {
	return p.ID
}

// WithID returns a copy of the presentation under another ID
func (p Presentation) WithID(id string) Presentation {
	p.ID = id
	return p
}

// MatchesFilter reports whether the presentation belongs to a list view
func (p Presentation) MatchesFilter(filter shared.Filter, opts shared.ListOptions) bool {
	if !opts.IncludeInactive && !p.Active {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	return term == "" ||
		strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Abbreviation), term)
}

// PresentationPatch is a partial update of a presentation
type PresentationPatch struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Abbreviation *string `json:"abbreviation,omitempty" validate:"omitempty,max=10"`
	Active       *bool   `json:"active,omitempty"`
}

// Apply returns a copy of p with the patch written over it
func (pp PresentationPatch) Apply(p Presentation) Presentation {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Abbreviation != nil {
		p.Abbreviation = strings.ToUpper(*pp.Abbreviation)
	}
	if pp.Active != nil {
		p.Active = *pp.Active
	}
	return p
}

// MergePresentation merges a patch into a presentation
func MergePresentation(p Presentation, pp PresentationPatch) Presentation {
	return pp.Apply(p)
}
