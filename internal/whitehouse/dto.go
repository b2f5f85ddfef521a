package whitehouse

// AddressDto é o endereço exposto pela API
type AddressDto struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	ZipCode    string `json:"zipCode"`
}

// PresidentDto é o contrato de entrada e saída da API
type PresidentDto struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Address AddressDto `json:"address"`
}

func toPresidentDto(p President) PresidentDto {
	return PresidentDto{
		ID:   p.ID,
		Name: p.Name,
		Address: AddressDto{
			Street:     p.Address.Street,
			Number:     p.Address.Number,
			Complement: p.Address.Complement,
			ZipCode:    p.Address.ZipCode,
		},
	}
}

func fromPresidentDto(dto PresidentDto) President {
	return President{
		ID:   dto.ID,
		Name: dto.Name,
		Address: Address{
			Street:     dto.Address.Street,
			Number:     dto.Address.Number,
			Complement: dto.Address.Complement,
			ZipCode:    dto.Address.ZipCode,
		},
	}
}

func toPresidentDtos(presidents []President) []PresidentDto {
	out := make([]PresidentDto, 0, len(presidents))
	for _, p := range presidents {
		out = append(out, toPresidentDto(p))
	}
	return out
}
