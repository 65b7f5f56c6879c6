package dto

type RegisterInput struct {
	Login     string `json:"login" validate:"required,min=3,max=255"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

type UpdateCredentialsInput struct {
	Login    *string `json:"login" validate:"omitempty,min=3,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}
