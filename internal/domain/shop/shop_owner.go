package shop

import (
	"regexp"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Profile holds the editable attributes of the shop owner
type Profile struct {
	ShopName      string
	TaxID         string
	PostalAddress string
	Email         string
	Phone         string
}

// Owner is the single shop profile printed on receipts and report headers
type Owner struct {
	shared.BaseEntity
	Profile
}

// NewOwner creates the shop profile
func NewOwner(p Profile) (*Owner, error) {
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Owner{BaseEntity: shared.NewBaseEntity(), Profile: p}, nil
}

// Update replaces the profile
func (o *Owner) Update(p Profile) error {
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return err
	}
	o.Profile = p
	o.Touch()
	return nil
}

func (p Profile) normalized() Profile {
	p.ShopName = strings.TrimSpace(p.ShopName)
	p.TaxID = strings.ToUpper(strings.TrimSpace(p.TaxID))
	p.PostalAddress = strings.TrimSpace(p.PostalAddress)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	return p
}

// Validate checks the required fields
func (p Profile) Validate() error {
	switch {
	case p.ShopName == "":
		return shared.NewDomainError(shared.CodeInvalidInput, "Shop name cannot be empty")
	case len(p.ShopName) > 200:
		return shared.NewDomainError(shared.CodeInvalidInput, "Shop name cannot exceed 200 characters")
	case p.TaxID == "":
		return shared.NewDomainError(shared.CodeInvalidInput, "Tax ID cannot be empty")
	case len(p.TaxID) > 50:
		return shared.NewDomainError(shared.CodeInvalidInput, "Tax ID cannot exceed 50 characters")
	case len(p.PostalAddress) > 500:
		return shared.NewDomainError(shared.CodeInvalidInput, "Postal address cannot exceed 500 characters")
	case p.Email != "" && !emailRegex.MatchString(p.Email):
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	case len(p.Phone) > 50:
		return shared.NewDomainError(shared.CodeInvalidInput, "Phone cannot exceed 50 characters")
	}
	return nil
}
