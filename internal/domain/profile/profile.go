package profile

import (
	"errors"
	"strings"
	"time"

	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrMissingRequired        = errors.New("first name, last name and phone number are required")
	ErrNoCategories           = errors.New("select at least one service category")
	ErrUnknownCategory        = errors.New("unknown service category")
	ErrUnknownExperienceLevel = errors.New("unknown experience level")
	ErrUnknownRole            = errors.New("role must be employer or jobSeeker")
	ErrNotFound               = errors.New("profile not found")
)

type Profile struct {
	UserID             uuid.UUID
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Address            string
	City               string
	State              string
	Zip                string
	Bio                string
	Role               user.Role
	ProfileImage       string
	SelectedCategories []string
	ExperienceLevel    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Profile) IsJobSeeker() bool {
	return p.Role == user.RoleJobSeeker
}

// IsComplete gates access to provider matching.
func (p Profile) IsComplete() bool {
	return strings.TrimSpace(p.FirstName) != "" &&
		strings.TrimSpace(p.LastName) != "" &&
		strings.TrimSpace(p.Phone) != ""
}

// Patch is a partial update. Nil fields are left unchanged. A non-nil
// SelectedCategories, even empty, replaces the stored list.
type Patch struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	Address            *string
	City               *string
	State              *string
	Zip                *string
	Bio                *string
	Role               *user.Role
	ProfileImage       *string
	SelectedCategories []string
	ExperienceLevel    *string
}

func (pt Patch) IsEmpty() bool {
	return pt.FirstName == nil && pt.LastName == nil && pt.Email == nil && pt.Phone == nil &&
		pt.Address == nil && pt.City == nil && pt.State == nil && pt.Zip == nil && pt.Bio == nil &&
		pt.Role == nil && pt.ProfileImage == nil && pt.SelectedCategories == nil && pt.ExperienceLevel == nil
}

// Apply returns p with every present field of pt merged in.
func (p Profile) Apply(pt Patch) Profile {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FirstName, pt.FirstName)
	set(&p.LastName, pt.LastName)
	set(&p.Email, pt.Email)
	set(&p.Phone, pt.Phone)
	set(&p.Address, pt.Address)
	set(&p.City, pt.City)
	set(&p.State, pt.State)
	set(&p.Zip, pt.Zip)
	set(&p.Bio, pt.Bio)
	set(&p.ProfileImage, pt.ProfileImage)
	set(&p.ExperienceLevel, pt.ExperienceLevel)
	if pt.Role != nil {
		p.Role = *pt.Role
	}
	if pt.SelectedCategories != nil {
		p.SelectedCategories = dedupe(pt.SelectedCategories)
	}
	return p.normalize()
}

// normalize drops job seeker only fields from employer profiles.
func (p Profile) normalize() Profile {
	if p.Role == user.RoleEmployer {
		p.SelectedCategories = []string{}
		p.ExperienceLevel = ""
	}
	if p.SelectedCategories == nil {
		p.SelectedCategories = []string{}
	}
	return p
}

// Validate checks the fields a profile must carry before it is saved.
func (p Profile) Validate() error {
	if !p.Role.Valid() {
		return ErrUnknownRole
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.Phone) == "" {
		return ErrMissingRequired
	}
	if !p.IsJobSeeker() {
		return nil
	}
	if len(p.SelectedCategories) == 0 {
		return ErrNoCategories
	}
	for _, c := range p.SelectedCategories {
		if !catalog.IsCategory(c) {
			return ErrUnknownCategory
		}
	}
	if p.ExperienceLevel != "" && !catalog.IsExperienceLevel(p.ExperienceLevel) {
		return ErrUnknownExperienceLevel
	}
	return nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Effective rewrites pt so that applying it to the stored record yields
// merged. Present fields take their merged value and employer records
// always clear the job seeker fields.
func (pt Patch) Effective(merged Profile) Patch {
	pick := func(v *string, m string) *string {
		if v == nil {
			return nil
		}
		return &m
	}
	out := Patch{
		FirstName:       pick(pt.FirstName, merged.FirstName),
		LastName:        pick(pt.LastName, merged.LastName),
		Email:           pick(pt.Email, merged.Email),
		Phone:           pick(pt.Phone, merged.Phone),
		Address:         pick(pt.Address, merged.Address),
		City:            pick(pt.City, merged.City),
		State:           pick(pt.State, merged.State),
		Zip:             pick(pt.Zip, merged.Zip),
		Bio:             pick(pt.Bio, merged.Bio),
		ProfileImage:    pick(pt.ProfileImage, merged.ProfileImage),
		ExperienceLevel: pick(pt.ExperienceLevel, merged.ExperienceLevel),
	}
	role := merged.Role
	out.Role = &role
	if pt.SelectedCategories != nil {
		out.SelectedCategories = merged.SelectedCategories
	}
	if merged.Role == user.RoleEmployer {
		empty := ""
		out.SelectedCategories = []string{}
		out.ExperienceLevel = &empty
	}
	return out
}
