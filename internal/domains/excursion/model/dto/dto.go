package dto

import (
	"excursions/internal/domains/excursion/model"
	"excursions/shared"
	gDto "excursions/shared/dto"

	"github.com/shopspring/decimal"
)

// ExcursionResponse is the storefront view of an excursion. Image and Gallery hold media
// references until Resolved turns them into fetchable URLs. Only the unresolved form is
// cached, since presigned URLs expire on their own schedule.
type ExcursionResponse struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Location string          `json:"location"`
	Price    decimal.Decimal `json:"price"`
	Duration string          `json:"duration"`
	Image    string          `json:"image,omitempty"`
	Gallery  []string        `json:"gallery,omitempty"`
	gDto.Metadata
}

func (r *ExcursionResponse) FromModel(model model.Excursion) {
	r.ID = model.ID
	r.Title = model.Title
	r.Location = model.Location
	r.Price = model.Price
	r.Duration = model.Duration
	r.Image = model.Image
	r.Gallery = append([]string(nil), model.Gallery...)
	r.Metadata.FromModel(model.Metadata)
}

// Resolved returns a copy with every media reference mapped through resolve. References
// that resolve to "" are dropped. The receiver is left untouched.
func (r ExcursionResponse) Resolved(resolve func(ref string) string) ExcursionResponse {
	if r.Image != "" {
		r.Image = resolve(r.Image)
	}

	refs := r.Gallery
	r.Gallery = nil

	for _, ref := range refs {
		if url := resolve(ref); url != "" {
			r.Gallery = append(r.Gallery, url)
		}
	}

	return r
}

type GetExcursionsResponse struct {
	Excursions []ExcursionResponse `json:"excursions"`
	TotalPage  int                 `json:"totalPage"`
	TotalData  int                 `json:"totalData"`
}

func (r *GetExcursionsResponse) FromModels(models []model.Excursion, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Excursions = make([]ExcursionResponse, len(models))
	for i, mod := range models {
		r.Excursions[i].FromModel(mod)
	}
}

func (r GetExcursionsResponse) Resolved(resolve func(ref string) string) GetExcursionsResponse {
	excursions := make([]ExcursionResponse, len(r.Excursions))
	for i, excursion := range r.Excursions {
		excursions[i] = excursion.Resolved(resolve)
	}

	r.Excursions = excursions

	return r
}
