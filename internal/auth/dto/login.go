package dto

type LoginInput struct {
	Login     string `json:"login" validate:"required"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
}
