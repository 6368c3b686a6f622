package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
)

// CustomerDTO is the API shape for a customer.
type CustomerDTO struct {
	ID        uuid.UUID    `json:"id"`
	FullName  string       `json:"full_name"`
	Phone     *string      `json:"phone,omitempty"`
	Email     *string      `json:"email,omitempty"`
	Note      *string      `json:"note,omitempty"`
	Vehicles  []VehicleDTO `json:"vehicles,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// VehicleDTO is the API shape for a vehicle.
type VehicleDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Plate      string    `json:"plate"`
	Brand      *string   `json:"brand,omitempty"`
	Model      *string   `json:"model,omitempty"`
	Year       *int      `json:"year,omitempty"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCustomerRequest captures the payload for a new customer.
type CreateCustomerRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Note     *string `json:"note,omitempty"`
}

// UpdateCustomerRequest carries the editable customer fields.
type UpdateCustomerRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Note     *string `json:"note,omitempty"`
}

// CreateVehicleRequest captures the payload for a new vehicle.
type CreateVehicleRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Plate      string    `json:"plate" validate:"required,min=2"`
	Brand      *string   `json:"brand,omitempty"`
	Model      *string   `json:"model,omitempty"`
	Year       *int      `json:"year,omitempty"`
	Note       *string   `json:"note,omitempty"`
}

// UpdateVehicleRequest carries the editable vehicle fields.
type UpdateVehicleRequest struct {
	Brand *string `json:"brand,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *int    `json:"year,omitempty"`
	Note  *string `json:"note,omitempty"`
}

func toCustomerDTO(customer *models.Customer, withVehicles bool) CustomerDTO {
	dto := CustomerDTO{
		ID:        customer.ID,
		FullName:  customer.FullName,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Note:      customer.Note,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
	if withVehicles {
		dto.Vehicles = make([]VehicleDTO, 0, len(customer.Vehicles))
		for i := range customer.Vehicles {
			dto.Vehicles = append(dto.Vehicles, toVehicleDTO(&customer.Vehicles[i]))
		}
	}
	return dto
}

func toVehicleDTO(vehicle *models.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:         vehicle.ID,
		CustomerID: vehicle.CustomerID,
		Plate:      vehicle.Plate,
		Brand:      vehicle.Brand,
		Model:      vehicle.Model,
		Year:       vehicle.Year,
		Note:       vehicle.Note,
		CreatedAt:  vehicle.CreatedAt,
	}
}
