package dto

import "helperhub/internal/domain/catalog"

type CatalogResponse struct {
	Categories       []catalog.Entry `json:"categories"`
	ServiceTypes     []catalog.Entry `json:"serviceTypes"`
	BusinessTypes    []catalog.Entry `json:"businessTypes"`
	ExperienceLevels []catalog.Entry `json:"experienceLevels"`
}

func NewCatalogResponse() CatalogResponse {
	return CatalogResponse{
		Categories:       catalog.Categories(),
		ServiceTypes:     catalog.ServiceTypes(),
		BusinessTypes:    catalog.BusinessTypes(),
		ExperienceLevels: catalog.ExperienceLevels(),
	}
}
