// Package validate holds the client-side schema checks that run before any
// network call. Messages attach to the offending field so forms can surface
// and clear them individually.
package validate

import (
	"regexp"
	"strconv"

	"github.com/locvowork/employee_admin_console/internal/domain"
)

// FieldErrors maps field name to its validation message.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Login checks the login form fields.
func Login(email, password string) FieldErrors {
	errs := FieldErrors{}
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	if password == "" {
		errs["password"] = "Password is required"
	} else if len(password) < 6 {
		errs["password"] = "Password must be at least 6 characters long"
	}
	return errs
}

// EmployeeForm is the raw form state before coercion: age and salary arrive
// as text and may be empty.
type EmployeeForm struct {
	Name     string
	Age      string
	Position string
	Salary   string
}

// Employee checks the form against the backend's validation rules and, when
// everything passes, returns the coerced input.
func Employee(form EmployeeForm) (domain.EmployeeInput, FieldErrors) {
	errs := FieldErrors{}
	var input domain.EmployeeInput

	if len(form.Name) > 100 {
		errs["name"] = "Name maximum length is 100 characters"
	}
	input.Name = form.Name

	if form.Age == "" {
		errs["age"] = "Age is required and must be a number"
	} else if age, err := strconv.Atoi(form.Age); err != nil {
		errs["age"] = "Age is required and must be a number"
	} else {
		input.Age = age
	}

	if len(form.Position) > 50 {
		errs["position"] = "Position maximum length is 50 characters"
	}
	input.Position = form.Position

	if form.Salary == "" {
		errs["salary"] = "Salary is required and must be a positive number"
	} else if salary, err := strconv.ParseFloat(form.Salary, 64); err != nil || salary < 0 {
		errs["salary"] = "Salary is required and must be a positive number"
	} else {
		input.Salary = salary
	}

	return input, errs
}
