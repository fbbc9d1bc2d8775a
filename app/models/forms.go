package models

type CategoryForm struct {
	ID              string `form:"id"`
	Title           string `form:"title" validate:"required,min=2,max=100"`
	ModuleID        string `form:"module" validate:"required,mongodb"`
	ParentID        string `form:"parent_category" validate:"omitempty,mongodb,nefield=ID"`
	Description     string `form:"description" validate:"max=1000"`
	DisplayOrder    int    `form:"display_order" validate:"gte=0"`
	IsActive        bool   `form:"is_active"`
	IsFeatured      bool   `form:"is_featured"`
	MetaTitle       string `form:"meta_title" validate:"max=160"`
	MetaDescription string `form:"meta_description" validate:"max=320"`
	CreatedBy       string
	// ExistingImage is kept on update when no new file is uploaded.
	ExistingImage string
}

func CategoryFormFrom(c Category) CategoryForm {
	return CategoryForm{
		ID:              c.ID,
		Title:           c.Title,
		ModuleID:        c.ModuleID,
		ParentID:        c.Parent(),
		Description:     c.Description,
		DisplayOrder:    c.DisplayOrder,
		IsActive:        c.IsActive,
		IsFeatured:      c.IsFeatured,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		ExistingImage:   c.Image,
	}
}

type VenueForm struct {
	ID               string `form:"id"`
	Name             string `form:"name" validate:"required,min=2,max=150"`
	Address          string `form:"address" validate:"required,min=5"`
	ContactPerson    string `form:"contact_person" validate:"required,min=2,max=100"`
	ContactPhone     string `form:"contact_phone" validate:"required,numeric,min=10,max=15"`
	ContactEmail     string `form:"contact_email" validate:"omitempty,email"`
	Description      string `form:"description" validate:"max=2000"`
	SeatedCapacity   int    `form:"seated_capacity" validate:"gte=0"`
	StandingCapacity int    `form:"standing_capacity" validate:"gte=0"`
	ZoneID           string `form:"zone" validate:"required,mongodb"`
	IsActive         bool   `form:"is_active"`
	IsTopPick        bool   `form:"is_top_pick"`
	PricingSchedule  PricingSchedule
}

// CategoryFromForm is the record the form describes, used when the backend
// acknowledges a write without echoing it.
func CategoryFromForm(f CategoryForm) Category {
	c := Category{
		ID:              f.ID,
		Title:           f.Title,
		ModuleID:        f.ModuleID,
		Description:     f.Description,
		IsActive:        f.IsActive,
		IsFeatured:      f.IsFeatured,
		DisplayOrder:    f.DisplayOrder,
		Image:           f.ExistingImage,
		MetaTitle:       f.MetaTitle,
		MetaDescription: f.MetaDescription,
	}
	if f.ParentID != "" {
		parent := f.ParentID
		c.ParentID = &parent
	}
	return c
}

func VenueFormFrom(v Venue) VenueForm {
	return VenueForm{
		ID:               v.ID,
		Name:             v.Name,
		Address:          v.Address,
		ContactPerson:    v.ContactPerson,
		ContactPhone:     v.ContactPhone,
		ContactEmail:     v.ContactEmail,
		Description:      v.Description,
		SeatedCapacity:   v.SeatedCapacity,
		StandingCapacity: v.StandingCapacity,
		ZoneID:           v.Zone.ID,
		IsActive:         v.IsActive,
		IsTopPick:        v.IsTopPick,
		PricingSchedule:  v.PricingSchedule.Normalize(),
	}
}

func VenueFromForm(f VenueForm) Venue {
	return Venue{
		ID:               f.ID,
		Name:             f.Name,
		Address:          f.Address,
		ContactPerson:    f.ContactPerson,
		ContactPhone:     f.ContactPhone,
		ContactEmail:     f.ContactEmail,
		Description:      f.Description,
		SeatedCapacity:   f.SeatedCapacity,
		StandingCapacity: f.StandingCapacity,
		Zone:             Ref{ID: f.ZoneID},
		PricingSchedule:  f.PricingSchedule.Normalize(),
		IsActive:         f.IsActive,
		IsTopPick:        f.IsTopPick,
	}
}

func (f VenueForm) TotalCapacity() int {
	return f.SeatedCapacity + f.StandingCapacity
}

// ProviderForm is the vendor onboarding wizard posted to /auth/register.
type ProviderForm struct {
	BusinessName  string `form:"business_name" validate:"required,min=2,max=150"`
	ContactPerson string `form:"contact_person" validate:"required,min=2,max=100"`
	Email         string `form:"email" validate:"required,email"`
	Phone         string `form:"phone" validate:"required,numeric,min=10,max=15"`
	Password      string `form:"password" validate:"required,min=6"`
	ModuleID      string `form:"module" validate:"required,mongodb"`
	ZoneID        string `form:"zone" validate:"required,mongodb"`
	Address       string `form:"address" validate:"required,min=5"`
	Latitude      string `form:"latitude" validate:"omitempty,latitude"`
	Longitude     string `form:"longitude" validate:"omitempty,longitude"`
	Role          string `form:"role" validate:"required,oneof=vendor provider"`
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}
