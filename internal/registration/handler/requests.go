package handler

import (
	"time"

	"github.com/asaskevich/govalidator"

	"skibazar/internal/registration/models"
	dErrors "skibazar/pkg/domain-errors"
)

type lineItemPayload struct {
	Description string  `json:"description"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
}

type registrationPayload struct {
	Name  string            `json:"name"`
	Phone string            `json:"phone"`
	Email string            `json:"email"`
	Note  string            `json:"note"`
	Items []lineItemPayload `json:"items"`
}

// validate rejects malformed payloads before anything reaches the store.
// All field problems are collected into one validation error.
func (p registrationPayload) validate() error {
	verr := dErrors.New(dErrors.CodeValidation, "invalid registration")

	if !govalidator.StringLength(p.Name, "1", "200") {
		verr.Add("name", "name is required")
	}
	if !govalidator.StringLength(p.Email, "1", "254") || !govalidator.IsEmail(p.Email) {
		verr.Add("email", "invalid email address")
	}
	if len(p.Items) == 0 {
		verr.Add("items", "at least one item is required")
	}
	for _, item := range p.Items {
		if item.Description == "" {
			verr.Add("items", "item description is required")
			break
		}
	}
	for _, item := range p.Items {
		if item.Price < 0 {
			verr.Add("items", "item price must not be negative")
			break
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (p registrationPayload) toModel() *models.Registration {
	items := make([]models.LineItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, models.LineItem{
			Description: item.Description,
			Size:        item.Size,
			Price:       item.Price,
		})
	}
	return &models.Registration{
		Name:  p.Name,
		Phone: p.Phone,
		Email: p.Email,
		Note:  p.Note,
		Items: items,
	}
}

type statusResponse struct {
	Status     string `json:"status"`
	Identifier string `json:"identifier"`
}

type lineItemResponse struct {
	Description string  `json:"description"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
}

type registrationResponse struct {
	Identifier string             `json:"identifier"`
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	Email      string             `json:"email"`
	Note       string             `json:"note"`
	Items      []lineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toResponse(reg *models.Registration) registrationResponse {
	items := make([]lineItemResponse, 0, len(reg.Items))
	for _, item := range reg.Items {
		items = append(items, lineItemResponse{
			Description: item.Description,
			Size:        item.Size,
			Price:       item.Price,
		})
	}
	return registrationResponse{
		Identifier: reg.Identifier,
		Name:       reg.Name,
		Phone:      reg.Phone,
		Email:      reg.Email,
		Note:       reg.Note,
		Items:      items,
		CreatedAt:  reg.CreatedAt,
	}
}
