// ABOUTME: Form definitions for login, signup, profile, lead, property and rating input
// ABOUTME: Struct tags carry the validation rules; labels name fields in messages
package forms

type PhoneForm struct {
	Phone string `validate:"indianphone" label:"Phone"`
}

type OTPForm struct {
	Phone string `validate:"indianphone" label:"Phone"`
	OTP   string `validate:"required,len=6,numeric" label:"OTP"`
}

type EmailForm struct {
	Email string `validate:"required,email" label:"Email"`
}

type RegisterForm struct {
	Name  string `validate:"required,max=100" label:"Name"`
	Email string `validate:"required,email" label:"Email"`
	Phone string `validate:"indianphone" label:"Phone"`
}

type ProfileForm struct {
	Name              string   `validate:"required" label:"Name"`
	Email             string   `validate:"required,email" label:"Email"`
	FirmName          string   `validate:"required" label:"Firm name"`
	LicenseNumber     string   `validate:"omitempty,max=50" label:"License number"`
	Address           string   `validate:"required" label:"Address"`
	City              string   `validate:"required" label:"City"`
	State             string   `validate:"required" label:"State"`
	Regions           []string `validate:"required,min=1,max=3" label:"Regions"`
	YearsOfExperience int      `validate:"gte=0,lte=60" label:"Years of experience"`
}

type LeadForm struct {
	CustomerName  string  `validate:"required" label:"Customer name"`
	CustomerPhone string  `validate:"indianphone" label:"Phone"`
	CustomerEmail string  `validate:"omitempty,email" label:"Email"`
	Requirement   string  `validate:"required,oneof=Buy Rent Sell" label:"Requirement"`
	PropertyType  string  `validate:"required,oneof=Residential Commercial Plot Other" label:"Property type"`
	Budget        float64 `validate:"gte=0" label:"Budget"`
	PrimaryRegion string  `validate:"required" label:"Primary region"`
}

type ShareForm struct {
	ShareType string   `validate:"required,oneof=individual region all" label:"Share type"`
	ToBrokers []string `validate:"required_if=ShareType individual" label:"Brokers"`
	RegionID  string   `validate:"required_if=ShareType region" label:"Region"`
}

type PropertyForm struct {
	Title        string  `validate:"required,max=120" label:"Title"`
	PropertyType string  `validate:"required,oneof=Residential Commercial Plot Other" label:"Property type"`
	Price        float64 `validate:"gt=0" label:"Price"`
	Address      string  `validate:"required" label:"Address"`
	City         string  `validate:"required" label:"City"`
	RegionID     string  `validate:"required" label:"Region"`
}

type RatingForm struct {
	BrokerID string `validate:"required" label:"Broker"`
	Rating   int    `validate:"min=1,max=5" label:"Rating"`
	Review   string `validate:"omitempty,max=500" label:"Review"`
}
