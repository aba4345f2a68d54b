package domain

// Address is a shipping destination.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Validate checks that every address field is present.
func (a Address) Validate() error {
	switch {
	case a.Street == "":
		return NewError(CodeInvalidArgument, "street is required")
	case a.City == "":
		return NewError(CodeInvalidArgument, "city is required")
	case a.State == "":
		return NewError(CodeInvalidArgument, "state is required")
	case a.ZipCode == "":
		return NewError(CodeInvalidArgument, "zip code is required")
	case a.Country == "":
		return NewError(CodeInvalidArgument, "country is required")
	}
	return nil
}
