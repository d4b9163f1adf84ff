package catalog

import "strings"

// Entry is an identifier with its display name.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category string

const (
	Maid       Category = "maid"
	Babysitter Category = "babysitter"
	Caregiver  Category = "caregiver"
	Cook       Category = "cook"
	PetCare    Category = "petcare"
	Gardener   Category = "gardener"
	Handyman   Category = "handyman"
)

// All is the category filter value that matches every category.
const All = "all"

var categories = []Entry{
	{ID: string(Maid), Name: "Maid/Housekeeping"},
	{ID: string(Babysitter), Name: "Babysitter"},
	{ID: string(Caregiver), Name: "Elderly Caregiver"},
	{ID: string(Cook), Name: "Cook"},
	{ID: string(PetCare), Name: "Pet Caretaker"},
	{ID: string(Gardener), Name: "Gardener"},
	{ID: string(Handyman), Name: "Handyman"},
}

func Categories() []Entry {
	out := make([]Entry, len(categories))
	copy(out, categories)
	return out
}

func IsCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryName returns the display name, or the id itself when unknown.
func CategoryName(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// ParseCategoryFilter normalises a listing filter. Empty means All.
func ParseCategoryFilter(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || v == All {
		return All, true
	}
	if IsCategory(v) {
		return v, true
	}
	return "", false
}

type ServiceType string

const (
	House     ServiceType = "house"
	ShortTerm ServiceType = "short-term"
	Business  ServiceType = "business"
)

var serviceTypes = []Entry{
	{ID: string(House), Name: "House Service Providers"},
	{ID: string(ShortTerm), Name: "Short Term Service Providers"},
	{ID: string(Business), Name: "Business Service Providers"},
}

func ServiceTypes() []Entry {
	out := make([]Entry, len(serviceTypes))
	copy(out, serviceTypes)
	return out
}

func ParseServiceType(raw string) (ServiceType, bool) {
	v := strings.TrimSpace(raw)
	for _, s := range serviceTypes {
		if s.ID == v {
			return ServiceType(v), true
		}
	}
	return "", false
}

func (s ServiceType) Title() string {
	for _, e := range serviceTypes {
		if e.ID == string(s) {
			return e.Name
		}
	}
	return string(s)
}

type ExperienceLevel string

const (
	Beginner     ExperienceLevel = "beginner"
	Intermediate ExperienceLevel = "intermediate"
	Expert       ExperienceLevel = "expert"
)

var experienceLevels = []Entry{
	{ID: string(Beginner), Name: "Beginner (0-1 years)"},
	{ID: string(Intermediate), Name: "Intermediate (1-3 years)"},
	{ID: string(Expert), Name: "Expert (3+ years)"},
}

func ExperienceLevels() []Entry {
	out := make([]Entry, len(experienceLevels))
	copy(out, experienceLevels)
	return out
}

func IsExperienceLevel(id string) bool {
	for _, e := range experienceLevels {
		if e.ID == id {
			return true
		}
	}
	return false
}

type BusinessType string

const (
	HouseServices   BusinessType = "house-services"
	ShortTermWork   BusinessType = "short-term"
	BusinessSupport BusinessType = "business-support"
	OtherBusiness   BusinessType = "other"
)

var businessTypes = []Entry{
	{ID: string(HouseServices), Name: "House Services"},
	{ID: string(ShortTermWork), Name: "Short Term Work"},
	{ID: string(BusinessSupport), Name: "Business Support"},
	{ID: string(OtherBusiness), Name: "Other"},
}

func BusinessTypes() []Entry {
	out := make([]Entry, len(businessTypes))
	copy(out, businessTypes)
	return out
}

func IsBusinessType(id string) bool {
	for _, b := range businessTypes {
		if b.ID == id {
			return true
		}
	}
	return false
}
