package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(registerForm{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(registerForm{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestStructEmail(t *testing.T) {
	errs := Struct(registerForm{Name: "Asha", Email: "not-an-email", Password: "secret123"})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

func TestStructMinLength(t *testing.T) {
	errs := Struct(registerForm{Name: "Asha", Email: "asha@example.com", Password: "abc"})
	assert.Contains(t, errs["password"], "at least 6")
}

func TestStructNumericBounds(t *testing.T) {
	type priced struct {
		Price float64 `json:"price" validate:"required,gt=0"`
		Stock int     `json:"stock" validate:"gte=0"`
	}

	assert.False(t, HasErrors(Struct(priced{Price: 9.99, Stock: 0})))

	errs := Struct(priced{Price: 0, Stock: -1})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
}

func TestStructNullableSkipsWhenEmpty(t *testing.T) {
	type form struct {
		Image string `json:"image" validate:"nullable,url"`
	}

	assert.False(t, HasErrors(Struct(form{})))
	assert.True(t, HasErrors(Struct(form{Image: "not a url"})))
	assert.False(t, HasErrors(Struct(form{Image: "https://cdn.example.com/a.png"})))
}

func TestStructInKeepsParameterList(t *testing.T) {
	type form struct {
		Role string `json:"role" validate:"required,in=admin,user"`
	}

	assert.False(t, HasErrors(Struct(form{Role: "admin"})))
	assert.False(t, HasErrors(Struct(form{Role: "user"})))

	errs := Struct(form{Role: "owner"})
	assert.Equal(t, "The selected role is invalid.", errs["role"])
}

func TestStructPointerInput(t *testing.T) {
	errs := Struct(&registerForm{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	assert.False(t, HasErrors(errs))
}

func TestStructFieldNamesUseJSONTag(t *testing.T) {
	type form struct {
		FirstName string `json:"firstName" validate:"required"`
	}
	errs := Struct(form{})
	assert.Contains(t, errs, "firstName")
}
