package validation

import (
	"strconv"
	"strings"

	"github.com/Shivanand-hulikatti/flight-booking/internal/form"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// ─── Auth ─────────────────────────────────────────────────────────────────────

// LoginValues is the value shape of the login form.
type LoginValues struct {
	Email      string `json:"email" form:"email" validate:"required,email"`
	Password   string `json:"password" form:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe" form:"rememberMe"`
}

var loginMessages = Messages{
	"email.required":    "Email is required",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
}

// Login validates the login form.
func (val *Validator) Login(v LoginValues) form.Errors {
	return val.Struct(v, loginMessages)
}

// RegisterValues is the value shape of the registration form.
type RegisterValues struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTerms" form:"agreeToTerms" validate:"required"`
}

var registerMessages = Messages{
	"name.required":            "Name is required",
	"email.required":           "Email is required",
	"email.email":              "Invalid email address",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
	"agreeToTerms.required":    "You must agree to the terms and conditions",
}

// Register validates the registration form.
func (val *Validator) Register(v RegisterValues) form.Errors {
	return val.Struct(v, registerMessages)
}

// ─── Flight search ────────────────────────────────────────────────────────────

// TripType selects one-way or round-trip searches.
type TripType string

const (
	OneWay    TripType = "oneWay"
	RoundTrip TripType = "roundTrip"
)

// SearchValues is the value shape of the flight search form.
type SearchValues struct {
	From       string           `json:"from" form:"from" validate:"min=3"`
	To         string           `json:"to" form:"to" validate:"min=3,nefield=From"`
	DepartDate string           `json:"departDate" form:"departDate" validate:"required,datetime=2006-01-02"`
	ReturnDate string           `json:"returnDate" form:"returnDate" validate:"required_if=TripType roundTrip,omitempty,datetime=2006-01-02"`
	TripType   TripType         `json:"tripType" form:"tripType" validate:"oneof=oneWay roundTrip"`
	Passengers int              `json:"passengers" form:"passengers" validate:"min=1,max=9"`
	CabinClass model.CabinClass `json:"cabinClass" form:"cabinClass" validate:"oneof=economy premium business first"`
}

// DefaultSearch is the initial value of the search form.
func DefaultSearch() SearchValues {
	return SearchValues{TripType: OneWay, Passengers: 1, CabinClass: model.CabinEconomy}
}

// Params converts the form values into a search request. The return date is
// only kept for round trips.
func (v SearchValues) Params() model.FlightSearchParams {
	p := model.FlightSearchParams{
		From:       v.From,
		To:         v.To,
		DepartDate: v.DepartDate,
		Passengers: v.Passengers,
		CabinClass: v.CabinClass,
	}
	if v.TripType == RoundTrip {
		p.ReturnDate = v.ReturnDate
	}
	return p
}

var searchMessages = Messages{
	"from.min":               "Please select a departure airport",
	"to.min":                 "Please select an arrival airport",
	"to.nefield":             "Departure and arrival airports must be different",
	"departDate.required":    "Please select a departure date",
	"departDate.datetime":    "Please select a valid departure date",
	"returnDate.required_if": "Please select a return date",
	"returnDate.datetime":    "Please select a valid return date",
	"tripType.oneof":         "Please select a trip type",
	"passengers.min":         "At least 1 passenger is required",
	"passengers.max":         "Maximum 9 passengers allowed",
	"cabinClass.oneof":       "Please select a cabin class",
}

// Search validates the flight search form.
func (val *Validator) Search(v SearchValues) form.Errors {
	errs := val.Struct(v, searchMessages)
	if v.TripType == RoundTrip && errs["departDate"] == "" && errs["returnDate"] == "" &&
		v.ReturnDate < v.DepartDate {
		errs["returnDate"] = "Return date cannot be before the departure date"
	}
	return errs
}

// ─── Passengers ───────────────────────────────────────────────────────────────

// PassengerValues is one passenger entry of the passenger form.
type PassengerValues struct {
	Type           model.PassengerType `json:"type" form:"type" validate:"omitempty,oneof=adult child infant"`
	Title          string              `json:"title" form:"title" validate:"omitempty,oneof=Mr Mrs Ms Miss Dr"`
	FirstName      string              `json:"firstName" form:"firstName" validate:"required"`
	LastName       string              `json:"lastName" form:"lastName" validate:"required"`
	DateOfBirth    string              `json:"dateOfBirth" form:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Nationality    string              `json:"nationality" form:"nationality" validate:"required"`
	PassportNumber string              `json:"passportNumber" form:"passportNumber" validate:"required"`
	PassportExpiry string              `json:"passportExpiry" form:"passportExpiry" validate:"required,datetime=2006-01-02,future"`
}

// PassengerFormValues is the value shape of the passenger details page:
// contact details plus one entry per travelling passenger.
type PassengerFormValues struct {
	Email      string            `json:"email" form:"email" validate:"required,email"`
	Phone      string            `json:"phone" form:"phone" validate:"required,phone"`
	Passengers []PassengerValues `json:"passengerInfo" form:"passengerInfo" validate:"min=1,dive"`
}

// NewPassengerForm returns empty passenger form values sized for n
// passengers.
func NewPassengerForm(n int) PassengerFormValues {
	if n < 1 {
		n = 1
	}
	return PassengerFormValues{Passengers: make([]PassengerValues, n)}
}

var passengerMessages = Messages{
	"email.required":          "Email is required",
	"email.email":             "Invalid email address",
	"phone.required":          "Phone number is required",
	"phone.phone":             "Invalid phone number",
	"passengerInfo.min":       "At least one passenger is required",
	"type.oneof":              "Invalid passenger type",
	"title.oneof":             "Invalid title",
	"firstName.required":      "First name is required",
	"lastName.required":       "Last name is required",
	"dateOfBirth.required":    "Date of birth is required",
	"dateOfBirth.datetime":    "Invalid date of birth",
	"nationality.required":    "Nationality is required",
	"passportNumber.required": "Passport number is required for international flights",
	"passportExpiry.required": "Passport expiry date is required for international flights",
	"passportExpiry.datetime": "Invalid passport expiry date",
	"passportExpiry.future":   "Passport must not be expired",
}

// Passengers validates the passenger form.
func (val *Validator) Passengers(v PassengerFormValues) form.Errors {
	return val.Struct(v, passengerMessages)
}

// ContactValues is the value shape of the standalone contact details form.
type ContactValues struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Phone string `json:"phone" form:"phone" validate:"required,phone"`
}

// Contact validates the contact details form.
func (val *Validator) Contact(v ContactValues) form.Errors {
	return val.Struct(v, passengerMessages)
}

// ─── Payment ──────────────────────────────────────────────────────────────────

// PaymentValues is the value shape of the mock card payment form.
type PaymentValues struct {
	CardNumber     string `json:"cardNumber" form:"cardNumber" validate:"required,cardnumber"`
	CardholderName string `json:"cardholderName" form:"cardholderName" validate:"required"`
	ExpiryDate     string `json:"expiryDate" form:"expiryDate" validate:"required,expiry"`
	CVC            string `json:"cvc" form:"cvc" validate:"required,cvc"`
}

var paymentMessages = Messages{
	"cardNumber.required":     "Card number is required",
	"cardNumber.cardnumber":   "Card number must be 16 digits",
	"cardholderName.required": "Cardholder name is required",
	"expiryDate.required":     "Expiry date is required",
	"expiryDate.expiry":       "Invalid expiry date format (MM/YY)",
	"cvc.required":            "CVC is required",
	"cvc.cvc":                 "CVC must be 3 or 4 digits",
}

// Payment validates the card form. A well-formed expiry date must name a real
// month that has not passed yet.
func (val *Validator) Payment(v PaymentValues) form.Errors {
	errs := val.Struct(v, paymentMessages)
	if _, bad := errs["expiryDate"]; bad {
		return errs
	}

	mm, yy, _ := strings.Cut(v.ExpiryDate, "/")
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	now := val.now()
	curYear, curMonth := now.Year()%100, int(now.Month())
	switch {
	case month < 1 || month > 12:
		errs["expiryDate"] = "Invalid month"
	case year < curYear || (year == curYear && month < curMonth):
		errs["expiryDate"] = "Card has expired"
	}
	return errs
}
