package security

import (
	"github.com/google/uuid"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// CustomerDto é o contrato de entrada e saída da API
type CustomerDto struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CustomerRequestAllDto filtra e pagina a listagem
type CustomerRequestAllDto struct {
	Name string
	Page repository.Page
}

func toCustomerDto(c Customer) CustomerDto {
	return CustomerDto{ID: c.ID, Name: c.Name}
}

func fromCustomerDto(dto CustomerDto) Customer {
	return Customer{ID: dto.ID, Name: dto.Name}
}
